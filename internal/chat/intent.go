package chat

import "strings"

const (
	IntentOrderInquiry     = "order_inquiry"
	IntentShippingQuestion = "shipping_question"
	IntentProductQuestion  = "product_question"
	IntentPaymentQuestion  = "payment_question"
	IntentReturnRefund     = "return_refund"
	IntentAccountHelp      = "account_help"
	IntentStoreInfo        = "store_info"
	IntentComplaint        = "complaint"
	IntentCompliment       = "compliment"
	IntentGreeting         = "greeting"
	IntentHelpRequest      = "help_request"
	IntentUnknown          = "unknown"
)

const unknownConfidence = 0.3

// intentRule matches when any of its keywords appears in the lowercased
// message. Rule order is priority order: the first hit wins.
type intentRule struct {
	intent     string
	confidence float64
	keywords   []string
}

// intentRules is evaluated top to bottom. Keep specific intents above
// generic ones: "hi" is a substring of "shipping", so greeting must sit
// below shipping_question.
var intentRules = []intentRule{
	{IntentOrderInquiry, 0.85, []string{"order", "tracking", "track"}},
	{IntentShippingQuestion, 0.85, []string{"shipping", "deliver", "courier", "dispatch"}},
	{IntentProductQuestion, 0.8, []string{"product", "size", "material", "colour", "color", "stock", "available"}},
	{IntentPaymentQuestion, 0.85, []string{"payment", "pay", "card", "upi", "cod", "price"}},
	{IntentReturnRefund, 0.85, []string{"return", "refund", "exchange", "replace"}},
	{IntentAccountHelp, 0.8, []string{"account", "login", "password", "sign up", "register"}},
	{IntentStoreInfo, 0.8, []string{"store", "location", "address", "timings", "hours", "contact"}},
	{IntentComplaint, 0.75, []string{"complaint", "issue", "problem", "damaged", "broken", "not working"}},
	{IntentCompliment, 0.75, []string{"thank", "great", "awesome", "love", "amazing"}},
	{IntentGreeting, 0.9, []string{"hello", "hi", "hey", "good morning", "good afternoon", "good evening", "namaste"}},
	{IntentHelpRequest, 0.8, []string{"help", "support", "assist"}},
}

// ClassifyIntent assigns a coarse intent to the message.
func ClassifyIntent(message string) (intent string, confidence float64) {
	lower := strings.ToLower(message)
	for _, rule := range intentRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.intent, rule.confidence
			}
		}
	}
	return IntentUnknown, unknownConfidence
}
