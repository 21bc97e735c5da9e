package symbols

import "github.com/chartpulse/chartpulse/internal/domain"

// curated is the startup symbol universe. QuerySymbol carries the
// upstream-specific formatting (crypto and forex pairs are quoted against
// USD, commodities use futures roots).
var curated = []Entry{
	// ── Stocks ──
	{"AAPL", "AAPL", "Apple Inc.", domain.ClassStock},
	{"MSFT", "MSFT", "Microsoft Corporation", domain.ClassStock},
	{"GOOGL", "GOOGL", "Alphabet Inc.", domain.ClassStock},
	{"AMZN", "AMZN", "Amazon.com Inc.", domain.ClassStock},
	{"NVDA", "NVDA", "NVIDIA Corporation", domain.ClassStock},
	{"META", "META", "Meta Platforms Inc.", domain.ClassStock},
	{"TSLA", "TSLA", "Tesla Inc.", domain.ClassStock},
	{"BRK.B", "BRK-B", "Berkshire Hathaway Inc.", domain.ClassStock},
	{"JPM", "JPM", "JPMorgan Chase & Co.", domain.ClassStock},
	{"V", "V", "Visa Inc.", domain.ClassStock},
	{"WMT", "WMT", "Walmart Inc.", domain.ClassStock},
	{"UNH", "UNH", "UnitedHealth Group Inc.", domain.ClassStock},
	{"XOM", "XOM", "Exxon Mobil Corporation", domain.ClassStock},
	{"JNJ", "JNJ", "Johnson & Johnson", domain.ClassStock},
	{"PG", "PG", "Procter & Gamble Co.", domain.ClassStock},
	{"MA", "MA", "Mastercard Inc.", domain.ClassStock},
	{"HD", "HD", "Home Depot Inc.", domain.ClassStock},
	{"KO", "KO", "Coca-Cola Co.", domain.ClassStock},
	{"PEP", "PEP", "PepsiCo Inc.", domain.ClassStock},
	{"BAC", "BAC", "Bank of America Corp.", domain.ClassStock},
	{"NFLX", "NFLX", "Netflix Inc.", domain.ClassStock},
	{"AMD", "AMD", "Advanced Micro Devices Inc.", domain.ClassStock},
	{"INTC", "INTC", "Intel Corporation", domain.ClassStock},
	{"DIS", "DIS", "Walt Disney Co.", domain.ClassStock},
	{"CRM", "CRM", "Salesforce Inc.", domain.ClassStock},
	{"ORCL", "ORCL", "Oracle Corporation", domain.ClassStock},
	{"CSCO", "CSCO", "Cisco Systems Inc.", domain.ClassStock},
	{"ADBE", "ADBE", "Adobe Inc.", domain.ClassStock},
	{"PYPL", "PYPL", "PayPal Holdings Inc.", domain.ClassStock},
	{"UBER", "UBER", "Uber Technologies Inc.", domain.ClassStock},
	{"COIN", "COIN", "Coinbase Global Inc.", domain.ClassStock},
	{"PLTR", "PLTR", "Palantir Technologies Inc.", domain.ClassStock},
	{"GME", "GME", "GameStop Corp.", domain.ClassStock},
	{"MSTR", "MSTR", "MicroStrategy Inc.", domain.ClassStock},
	{"HOOD", "HOOD", "Robinhood Markets Inc.", domain.ClassStock},

	// ── Crypto ──
	{"BTC", "BTCUSD", "Bitcoin", domain.ClassCrypto},
	{"ETH", "ETHUSD", "Ethereum", domain.ClassCrypto},
	{"SOL", "SOLUSD", "Solana", domain.ClassCrypto},
	{"XRP", "XRPUSD", "XRP", domain.ClassCrypto},
	{"ADA", "ADAUSD", "Cardano", domain.ClassCrypto},
	{"DOGE", "DOGEUSD", "Dogecoin", domain.ClassCrypto},
	{"AVAX", "AVAXUSD", "Avalanche", domain.ClassCrypto},
	{"DOT", "DOTUSD", "Polkadot", domain.ClassCrypto},
	{"LINK", "LINKUSD", "Chainlink", domain.ClassCrypto},
	{"MATIC", "MATICUSD", "Polygon", domain.ClassCrypto},
	{"SHIB", "SHIBUSD", "Shiba Inu", domain.ClassCrypto},
	{"LTC", "LTCUSD", "Litecoin", domain.ClassCrypto},
	{"UNI", "UNIUSD", "Uniswap", domain.ClassCrypto},
	{"ATOM", "ATOMUSD", "Cosmos", domain.ClassCrypto},
	{"XLM", "XLMUSD", "Stellar", domain.ClassCrypto},
	{"NEAR", "NEARUSD", "NEAR Protocol", domain.ClassCrypto},
	{"APT", "APTUSD", "Aptos", domain.ClassCrypto},
	{"ARB", "ARBUSD", "Arbitrum", domain.ClassCrypto},
	{"OP", "OPUSD", "Optimism", domain.ClassCrypto},
	{"PEPE", "PEPEUSD", "Pepe", domain.ClassCrypto},
	{"WIF", "WIFUSD", "dogwifhat", domain.ClassCrypto},
	{"BONK", "BONKUSD", "Bonk", domain.ClassCrypto},
	{"SUI", "SUIUSD", "Sui", domain.ClassCrypto},
	{"TON", "TONUSD", "Toncoin", domain.ClassCrypto},
	{"TRX", "TRXUSD", "TRON", domain.ClassCrypto},

	// ── Forex ──
	{"EURUSD", "EURUSD", "Euro / US Dollar", domain.ClassForex},
	{"GBPUSD", "GBPUSD", "British Pound / US Dollar", domain.ClassForex},
	{"USDJPY", "USDJPY", "US Dollar / Japanese Yen", domain.ClassForex},
	{"USDCHF", "USDCHF", "US Dollar / Swiss Franc", domain.ClassForex},
	{"AUDUSD", "AUDUSD", "Australian Dollar / US Dollar", domain.ClassForex},
	{"USDCAD", "USDCAD", "US Dollar / Canadian Dollar", domain.ClassForex},
	{"NZDUSD", "NZDUSD", "New Zealand Dollar / US Dollar", domain.ClassForex},
	{"EURGBP", "EURGBP", "Euro / British Pound", domain.ClassForex},
	{"EURJPY", "EURJPY", "Euro / Japanese Yen", domain.ClassForex},

	// ── Commodities ──
	{"GOLD", "GCUSD", "Gold Futures", domain.ClassCommodity},
	{"SILVER", "SIUSD", "Silver Futures", domain.ClassCommodity},
	{"OIL", "CLUSD", "Crude Oil WTI Futures", domain.ClassCommodity},
	{"BRENT", "BZUSD", "Brent Crude Oil Futures", domain.ClassCommodity},
	{"NATGAS", "NGUSD", "Natural Gas Futures", domain.ClassCommodity},
	{"COPPER", "HGUSD", "Copper Futures", domain.ClassCommodity},
	{"WHEAT", "ZWUSD", "Wheat Futures", domain.ClassCommodity},
	{"CORN", "ZCUSD", "Corn Futures", domain.ClassCommodity},

	// ── Indices ──
	{"SPX", "^GSPC", "S&P 500", domain.ClassIndex},
	{"NDX", "^IXIC", "NASDAQ Composite", domain.ClassIndex},
	{"DJI", "^DJI", "Dow Jones Industrial Average", domain.ClassIndex},
	{"RUT", "^RUT", "Russell 2000", domain.ClassIndex},
	{"VIX", "^VIX", "CBOE Volatility Index", domain.ClassIndex},
	{"FTSE", "^FTSE", "FTSE 100", domain.ClassIndex},
	{"DAX", "^GDAXI", "DAX", domain.ClassIndex},
	{"N225", "^N225", "Nikkei 225", domain.ClassIndex},
}

// aliasTable normalizes common-language names to curated tickers. Keys are
// matched case-insensitively against query tokens.
var aliasTable = map[string]string{
	"bitcoin":    "BTC",
	"ethereum":   "ETH",
	"ether":      "ETH",
	"solana":     "SOL",
	"ripple":     "XRP",
	"cardano":    "ADA",
	"dogecoin":   "DOGE",
	"polkadot":   "DOT",
	"chainlink":  "LINK",
	"polygon":    "MATIC",
	"litecoin":   "LTC",
	"uniswap":    "UNI",
	"toncoin":    "TON",
	"tron":       "TRX",
	"apple":      "AAPL",
	"microsoft":  "MSFT",
	"google":     "GOOGL",
	"alphabet":   "GOOGL",
	"amazon":     "AMZN",
	"nvidia":     "NVDA",
	"facebook":   "META",
	"tesla":      "TSLA",
	"netflix":    "NFLX",
	"disney":     "DIS",
	"walmart":    "WMT",
	"visa":       "V",
	"mastercard": "MA",
	"intel":      "INTC",
	"oracle":     "ORCL",
	"adobe":      "ADBE",
	"paypal":     "PYPL",
	"coinbase":   "COIN",
	"palantir":   "PLTR",
	"gamestop":   "GME",
	"robinhood":  "HOOD",
	"gold":       "GOLD",
	"silver":     "SILVER",
	"oil":        "OIL",
	"crude":      "OIL",
	"brent":      "BRENT",
	"copper":     "COPPER",
	"wheat":      "WHEAT",
	"corn":       "CORN",
	"sp500":      "SPX",
	"s&p500":     "SPX",
	"s&p":        "SPX",
	"nasdaq":     "NDX",
	"dow":        "DJI",
	"nikkei":     "N225",
	"euro":       "EURUSD",
	"pound":      "GBPUSD",
	"sterling":   "GBPUSD",
	"yen":        "USDJPY",
}
