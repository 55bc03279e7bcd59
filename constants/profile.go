package constants

// Profile identifies which image crop produced a batch of OCR tokens.
type Profile string

// Stable values (the OCR collaborator tags tokens with these exact strings).
const (
	ProfileFull      Profile = "full"       // whole receipt
	ProfileLineItems Profile = "line_items" // body crop with purchasable items
	ProfileTotals    Profile = "totals"     // bottom crop with the totals block
)

// ReceiptStatus is the canonical status the calling layer stores for a receipt.
type ReceiptStatus string

const (
	ReceiptStatusQueued     ReceiptStatus = "QUEUED"     // waiting for tokens
	ReceiptStatusProcessing ReceiptStatus = "PROCESSING" // payload built, rules pending
	ReceiptStatusReview     ReceiptStatus = "REVIEW"     // manual review required
	ReceiptStatusAccepted   ReceiptStatus = "ACCEPTED"   // auto-accept candidate confirmed
	ReceiptStatusRejected   ReceiptStatus = "REJECTED"   // unreadable or no extractable data
)
