package settlement

// Participant is identified by its position in Expense.Participants, not by name.
type Participant struct {
	Name         string `json:"name"`
	ProfilePhoto string `json:"profilePhoto,omitempty"`
	Username     string `json:"username,omitempty"`
}

type Split struct {
	ParticipantIndex int      `json:"participantIndex"`
	Amount           Amount   `json:"amount"`
	Percentage       *float64 `json:"percentage,omitempty"`
}

// Item is one line of an expense. Splits[i] is the share owed by
// SelectedConsumers[i]; the pairing is positional.
type Item struct {
	Name              string  `json:"name,omitempty"`
	Amount            Amount  `json:"amount"`
	SelectedPayers    []int   `json:"selectedPayers"`
	SelectedConsumers []int   `json:"selectedConsumers"`
	Splits            []Split `json:"splits"`
}

type FeeType string

const (
	FeeFixed      FeeType = "fixed"
	FeePercentage FeeType = "percentage"
)

// Fee splits are keyed by Split.ParticipantIndex.
type Fee struct {
	Name       string   `json:"name,omitempty"`
	Amount     Amount   `json:"amount"`
	Type       FeeType  `json:"type"`
	Percentage *float64 `json:"percentage,omitempty"`
	Splits     []Split  `json:"splits"`
}

type Expense struct {
	Participants []Participant `json:"participants"`
	Items        []Item        `json:"items"`
	Fees         []Fee         `json:"fees"`
}

// Balance is positive for a debtor and negative for a creditor.
type Balance struct {
	Name    string  `json:"name"`
	Index   int     `json:"index"`
	Balance float64 `json:"balance"`
}

type Settlement struct {
	From      string  `json:"from"`
	FromIndex int     `json:"fromIndex"`
	To        string  `json:"to"`
	ToIndex   int     `json:"toIndex"`
	Amount    float64 `json:"amount"`
}

type Summary struct {
	TotalTransactions  int     `json:"totalTransactions"`
	TotalAmount        float64 `json:"totalAmount"`
	UniquePayers       int     `json:"uniquePayers"`
	UniqueReceivers    int     `json:"uniqueReceivers"`
	UniquePeople       int     `json:"uniquePeople"`
	AverageTransaction float64 `json:"averageTransaction"`
}

// Result is what a single calculate call hands back to clients.
type Result struct {
	Settlements      []Settlement `json:"settlements"`
	Balances         []Balance    `json:"balances"`
	TotalSettlements int          `json:"totalSettlements"`
	TotalAmount      float64      `json:"totalAmount"`
}
