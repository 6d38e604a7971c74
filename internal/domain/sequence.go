package domain

import "fmt"

const (
	SeqOrders       = "orders"
	SeqTransactions = "transactions"
	SeqCategories   = "categories"

	OrderNumberPrefix   = "#ORD-"
	TransactionIDPrefix = "TXN-"
	CategorySlugPrefix  = "category-"
)

// SequenceOffset keeps identifiers compatible with the count-based numbering
// the first orders were issued under: the first value is 12345.
const SequenceOffset = 12345

// Sequence is one named monotonic counter. Value is the number of
// identifiers handed out so far.
type Sequence struct {
	Name  string `gorm:"primaryKey;size:32"`
	Value int64  `gorm:"not null"`
}

// FormatSequence renders the n-th identifier (n starts at 0) of a scope.
func FormatSequence(prefix string, n int64) string {
	return fmt.Sprintf("%s%05d", prefix, n+SequenceOffset)
}

func OrderNumber(n int64) string   { return FormatSequence(OrderNumberPrefix, n) }
func TransactionID(n int64) string { return FormatSequence(TransactionIDPrefix, n) }
func FallbackSlug(n int64) string  { return FormatSequence(CategorySlugPrefix, n) }
