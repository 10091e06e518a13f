package models

// Market identifies a wagering market.
type Market string

// Supported markets
const (
	MarketWin      Market = "win"      // 単勝
	MarketPlace    Market = "place"    // 複勝
	MarketQuinella Market = "quinella" // 馬連
	MarketWide     Market = "wide"     // ワイド
	MarketTrifecta Market = "trifecta" // 三連単
)

// ValidMarket reports whether the string names a supported market.
func ValidMarket(s string) bool {
	switch Market(s) {
	case MarketWin, MarketPlace, MarketQuinella, MarketWide, MarketTrifecta:
		return true
	}
	return false
}
