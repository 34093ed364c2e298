package edgar

// cusipTickers maps CUSIPs of commonly 13F-reported US issues to their
// exchange tickers. EDGAR reports holdings by CUSIP only; anything not
// covered here must come in through config ticker_overrides.
var cusipTickers = map[string]string{
	"037833100": "AAPL", // Apple Inc
	"025816109": "AXP",  // American Express Co
	"060505104": "BAC",  // Bank of America Corp
	"064058100": "BK",   // Bank of New York Mellon
	"166764100": "CVX",  // Chevron Corp
	"191216100": "KO",   // Coca-Cola Co
	"12572Q105": "CMG",  // Chipotle Mexican Grill
	"172967424": "C",    // Citigroup Inc
	"126408103": "CSX",  // CSX Corp
	"23918K108": "DVA",  // DaVita Inc
	"254687106": "DIS",  // Walt Disney Co
	"278865100": "EBAY", // eBay Inc
	"30231G102": "XOM",  // Exxon Mobil Corp
	"369604103": "GE",   // General Electric Co
	"38141G104": "GS",   // Goldman Sachs Group
	"404280406": "HSBC", // HSBC Holdings
	"428236103": "HPQ",  // HP Inc
	"458140100": "INTC", // Intel Corp
	"459200101": "IBM",  // IBM Corp
	"46625H100": "JPM",  // JPMorgan Chase & Co
	"472319102": "JEF",  // Jefferies Financial Group
	"478160104": "JNJ",  // Johnson & Johnson
	"500754106": "KHC",  // Kraft Heinz Co
	"501044101": "KR",   // Kroger Co
	"531229102": "LEN",  // Lennar Corp
	"540424108": "LPX",  // Louisiana-Pacific Corp
	"565849106": "MAR",  // Marriott International
	"57636Q104": "MA",   // Mastercard Inc
	"57059Q104": "MKL",  // Markel Group
	"580135101": "MCK",  // McKesson Corp
	"589331107": "MRK",  // Merck & Co
	"594918104": "MSFT", // Microsoft Corp
	"615369105": "MCO",  // Moody's Corp
	"654106103": "NKE",  // Nike Inc
	"67066G104": "NVDA", // NVIDIA Corp
	"674599105": "OXY",  // Occidental Petroleum
	"713448108": "PEP",  // PepsiCo Inc
	"717081103": "PFE",  // Pfizer Inc
	"718172109": "PM",   // Philip Morris International
	"742718109": "PG",   // Procter & Gamble Co
	"84265V105": "STNE", // StoneCo Ltd
	"87612E106": "TGT",  // Target Corp
	"874039100": "TSM",  // Taiwan Semiconductor (ADR)
	"88160R101": "TSLA", // Tesla Inc
	"881624209": "TEVA", // Teva Pharmaceutical (ADR)
	"902973304": "USB",  // US Bancorp
	"911312106": "UPS",  // United Parcel Service
	"92343V104": "VZ",   // Verizon Communications
	"92826C839": "V",    // Visa Inc
	"931142103": "WMT",  // Walmart Inc
	"949746101": "WFC",  // Wells Fargo & Co
	"02079K305": "GOOGL", // Alphabet Inc Class A
	"023135106": "AMZN", // Amazon.com Inc
	"00287Y109": "ABBV", // AbbVie Inc
	"00724F101": "ADBE", // Adobe Inc
	"02005N100": "ALLY", // Ally Financial Inc
	"053015103": "ADP",  // Automatic Data Processing
	"097023105": "BA",   // Boeing Co
	"14040H105": "COF",  // Capital One Financial
	"20825C104": "COP",  // ConocoPhillips
	"22160K105": "COST", // Costco Wholesale
	"30303M102": "META", // Meta Platforms Inc
	"370334104": "GM",   // General Motors Co
	"37045V100": "GL",   // Globe Life Inc
	"553683102": "MMC",  // Marsh & McLennan
	"684774103": "ORCL", // Oracle Corp
	"747525103": "QCOM", // Qualcomm Inc
	"79466L302": "CRM",  // Salesforce Inc
	"806857108": "SLB",  // Schlumberger Ltd
	"855244109": "SBUX", // Starbucks Corp
	"862121100": "STOR", // Store Capital Corp
	"86771W105": "SNOW", // Snowflake Inc
	"896522109": "TPR",  // Tapestry Inc
	"91324P102": "UNH",  // UnitedHealth Group
	"92556V106": "VTRS", // Viatris Inc
	"983919101": "XEL",  // Xcel Energy Inc
}
