// Package chat implements the rule-based chat responder: keyword-driven
// intent and sentiment classification mapped to canned replies. It is
// stateless across calls.
package chat

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/anishsharma/catalog-assist/internal/config"
	"github.com/anishsharma/catalog-assist/internal/models"
	"github.com/anishsharma/catalog-assist/internal/observability"
)

// ErrEmptyMessage marks a blank chat message; the endpoint turns it into
// a guidance reply rather than a crash.
var ErrEmptyMessage = errors.New("message is required")

type Reply struct {
	Text        string
	Suggestions []string
	Analysis    models.ChatAnalysis
}

type Responder struct {
	cfg    config.ChatConfig
	logger *zap.Logger
}

func NewResponder(cfg config.ChatConfig, logger *zap.Logger) *Responder {
	return &Responder{cfg: cfg, logger: logger}
}

type cannedReply struct {
	text        string
	suggestions []string
}

var intentReplies = map[string]cannedReply{
	IntentOrderInquiry: {
		"You can check your orders in the 'My Profile' section. Need help tracking a specific order?",
		[]string{"View orders", "Track order", "Cancel order"},
	},
	IntentShippingQuestion: {
		"Free shipping on orders above ₹1000. Standard delivery takes 3-5 business days.",
		[]string{"Shipping info", "Delivery time", "Track order"},
	},
	IntentProductQuestion: {
		"Happy to help with product details! Size charts and materials are listed on every product page.",
		[]string{"Size guide", "Browse products", "Check availability"},
	},
	IntentPaymentQuestion: {
		"We accept cards, UPI and cash on delivery. Payments are processed securely.",
		[]string{"Payment methods", "UPI help", "COD availability"},
	},
	IntentReturnRefund: {
		"Returns are accepted within 7 days of delivery. Refunds reach your account in 5-7 business days.",
		[]string{"Start a return", "Refund status", "Exchange item"},
	},
	IntentAccountHelp: {
		"For account issues, try resetting your password from the login page. Still stuck? I can connect you to support.",
		[]string{"Reset password", "Update profile", "Contact support"},
	},
	IntentStoreInfo: {
		"We're an online-first store. You can reach us anytime through the contact page.",
		[]string{"Contact us", "About us"},
	},
	IntentComplaint: {
		"I'm sorry to hear that. Please share your order number and we'll make it right.",
		[]string{"Report issue", "Contact support", "Request refund"},
	},
	IntentCompliment: {
		"Thank you so much! We're glad you're enjoying the store.",
		[]string{"Browse new arrivals", "Leave a review"},
	},
	IntentGreeting: {
		"Hello! How can I help you today?",
		[]string{"Order status", "Shipping info", "Product help"},
	},
	IntentHelpRequest: {
		"I can help with orders, shipping, returns, payments and products. What do you need?",
		[]string{"Order status", "Shipping info", "Returns"},
	},
}

// Respond classifies the message and selects a canned reply. Any internal
// fault is converted to a safe fallback reply; nothing propagates to the
// transport layer.
func (r *Responder) Respond(message, userID string) (reply Reply, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("chat responder panic recovered", zap.Any("panic", rec))
			reply = r.fallbackReply()
			err = nil
		}
	}()

	if message == "" {
		return Reply{}, ErrEmptyMessage
	}

	sentiment, sentimentScore := AnalyzeSentiment(message)
	intent, confidence := ClassifyIntent(message)

	observability.ChatIntents.WithLabelValues(intent, sentiment).Inc()
	r.logger.Debug("chat message classified",
		zap.String("intent", intent),
		zap.String("sentiment", sentiment),
		zap.String("user_id", userID),
	)

	analysis := models.ChatAnalysis{
		Sentiment:      sentiment,
		SentimentScore: sentimentScore,
		Intent:         intent,
		Confidence:     confidence,
	}

	if canned, ok := intentReplies[intent]; ok {
		return Reply{Text: canned.text, Suggestions: canned.suggestions, Analysis: analysis}, nil
	}

	// Unknown intent: let sentiment pick the tone.
	canned := r.sentimentReply(sentiment)
	return Reply{Text: canned.text, Suggestions: canned.suggestions, Analysis: analysis}, nil
}

func (r *Responder) sentimentReply(sentiment string) cannedReply {
	switch sentiment {
	case SentimentNegative:
		return cannedReply{
			fmt.Sprintf("I'm sorry you're having trouble. You can also reach our team at %s.", r.cfg.SupportContact),
			[]string{"Contact support", "Report issue"},
		}
	case SentimentPositive:
		return cannedReply{
			"Glad to hear it! Anything I can help you find?",
			[]string{"Browse products", "Order status"},
		}
	default:
		return cannedReply{
			"Hello! How can I help you today?",
			[]string{"Order status", "Shipping info", "Product help"},
		}
	}
}

func (r *Responder) fallbackReply() Reply {
	return Reply{
		Text:        fmt.Sprintf("Something went wrong on our side. Please try again or contact %s.", r.cfg.SupportContact),
		Suggestions: []string{"Contact support"},
		Analysis: models.ChatAnalysis{
			Sentiment:      SentimentNeutral,
			SentimentScore: 0.5,
			Intent:         IntentUnknown,
			Confidence:     unknownConfidence,
		},
	}
}
