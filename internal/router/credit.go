package router

// CreditReply is returned verbatim when a credit trigger is sent, bypassing
// classification and the completion service entirely.
const CreditReply = "This app has been created by Nawaf and Abdallah @OVN531 and @TL-cailburex on Instagram"

var creditTriggers = map[string]struct{}{
	"ovn":      {},
	"cailbxrn": {},
}

// CreditShortCircuit reports whether the normalized text exactly matches one
// of the credit trigger tokens.
func CreditShortCircuit(text string) bool {
	_, ok := creditTriggers[Normalize(text)]
	return ok
}
