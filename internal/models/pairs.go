package models

import (
	"sort"

	"github.com/samber/lo"
)

// Instrument: код пары у источника и человекочитаемое имя.
type Instrument struct {
	Code string
	Name string
}

var CurrencyPairs = []Instrument{
	{"AUDCAD_otc", "AUD/CAD (OTC)"},
	{"AUDCHF_otc", "AUD/CHF (OTC)"},
	{"AUDJPY_otc", "AUD/JPY (OTC)"},
	{"AUDNZD_otc", "AUD/NZD (OTC)"},
	{"AUDUSD_otc", "AUD/USD (OTC)"},
	{"EURUSD_otc", "EUR/USD (OTC)"},
	{"EURGBP_otc", "EUR/GBP (OTC)"},
	{"EURJPY_otc", "EUR/JPY (OTC)"},
	{"EURNZD_otc", "EUR/NZD (OTC)"},
	{"EURSGD_otc", "EUR/SGD (OTC)"},
	{"EURAUD_otc", "EUR/AUD (OTC)"},
	{"EURCAD_otc", "EUR/CAD (OTC)"},
	{"EURCHF_otc", "EUR/CHF (OTC)"},
	{"GBPUSD_otc", "GBP/USD (OTC)"},
	{"GBPAUD_otc", "GBP/AUD (OTC)"},
	{"GBPCAD_otc", "GBP/CAD (OTC)"},
	{"GBPCHF_otc", "GBP/CHF (OTC)"},
	{"GBPJPY_otc", "GBP/JPY (OTC)"},
	{"GBPNZD_otc", "GBP/NZD (OTC)"},
	{"NZDCAD_otc", "NZD/CAD (OTC)"},
	{"NZDCHF_otc", "NZD/CHF (OTC)"},
	{"NZDJPY_otc", "NZD/JPY (OTC)"},
	{"USDCAD_otc", "USD/CAD (OTC)"},
	{"USDCHF_otc", "USD/CHF (OTC)"},
	{"USDCOP_otc", "USD/COP (OTC)"},
	{"USDDZD_otc", "USD/DZD (OTC)"},
	{"USDEGP_otc", "USD/EGP (OTC)"},
	{"USDIDR_otc", "USD/IDR (OTC)"},
	{"USDINR_otc", "USD/INR (OTC)"},
	{"USDJPY_otc", "USD/JPY (OTC)"},
	{"USDMXN_otc", "USD/MXN (OTC)"},
	{"USDNGN_otc", "USD/NGN (OTC)"},
	{"USDPHP_otc", "USD/PHP (OTC)"},
	{"USDPKR_otc", "USD/PKR (OTC)"},
	{"USDTRY_otc", "USD/TRY (OTC)"},
	{"USDZAR_otc", "USD/ZAR (OTC)"},
}

var StocksAndIndices = []Instrument{
	{"AXJAUD", "S&P/ASX 200"},
	{"AXP_otc", "American Express (OTC)"},
	{"BA_otc", "Boeing Company (OTC)"},
	{"BRLUSD_otc", "USD/BRL (OTC)"},
	{"BTCUSD_otc", "Bitcoin (OTC)"},
	{"CADCHF_otc", "CAD/CHF (OTC)"},
	{"CADJPY_otc", "CAD/JPY (OTC)"},
	{"CHFJPY_otc", "CHF/JPY (OTC)"},
	{"CHIA50", "FTSE China A50 Index"},
	{"DJIUSD", "Dow Jones"},
	{"F40EUR", "CAC 40"},
	{"FB_otc", "FACEBOOK INC (OTC)"},
	{"FTSGBP", "FTSE 100"},
	{"HSIHKD", "Hong Kong 50"},
	{"IBXEUR", "IBEX 35"},
	{"INTC_otc", "Intel (OTC)"},
	{"IT4EUR", "Italy 40"},
	{"JNJ_otc", "Johnson & Johnson (OTC)"},
	{"JPXJPY", "Nikkei 225"},
	{"MCD_otc", "McDonald's (OTC)"},
	{"MSFT_otc", "Microsoft (OTC)"},
	{"NDXUSD", "NASDAQ 100"},
	{"PFE_otc", "Pfizer Inc (OTC)"},
	{"STXEUR", "EURO STOXX 50"},
	{"UKBrent_otc", "UKBrent (OTC)"},
	{"USCrude_otc", "USCrude (OTC)"},
	{"XAGUSD_otc", "Silver (OTC)"},
	{"XAUUSD_otc", "Gold (OTC)"},
}

// UniquePairs: отсортированные уникальные пары из набора сигналов.
func UniquePairs(signals []Signal) []string {
	pairs := lo.Uniq(lo.Map(signals, func(s Signal, _ int) string { return s.Pair }))
	sort.Strings(pairs)
	return pairs
}
