package models

// Powerball rules.
const (
	WhiteBallMax = 69
	PowerballMax = 26
	TicketCost   = 2
)

// Prize thresholds in whole dollars.
const (
	JackpotPrize     int64 = 1_800_000_000
	MillionThreshold int64 = 1_000_000
)

type prizeKey struct {
	whiteMatches   int
	powerballMatch bool
}

// Official prize structure: (white ball matches, powerball match) -> amount.
var prizeTable = map[prizeKey]int64{
	{5, true}:  JackpotPrize,
	{5, false}: 1_000_000,
	{4, true}:  50_000,
	{4, false}: 100,
	{3, true}:  100,
	{3, false}: 7,
	{2, true}:  7,
	{1, true}:  4,
	{0, true}:  4,
}

// PrizeFor returns the prize amount for a ticket result.
// Combinations not in the table win nothing.
func PrizeFor(whiteMatches int, powerballMatch bool) int64 {
	return prizeTable[prizeKey{whiteMatches, powerballMatch}]
}
