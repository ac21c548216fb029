package grounding

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// defaultGuidelines is the built-in guidance corpus used to seed an
// empty store. IDs are stable so reseeding is idempotent.
var defaultGuidelines = []Document{
	{
		ID:       "guideline-whatsapp-friendly",
		Title:    "WhatsApp friendly messages",
		Platform: "whatsapp",
		Tone:     "Friendly",
		Text:     "WhatsApp messages read best when they are short and personal. Use line breaks instead of long paragraphs, and a single emoji to set the mood. Avoid formal sign-offs; the chat history is the context.",
	},
	{
		ID:       "guideline-whatsapp-concise",
		Title:    "WhatsApp brevity",
		Platform: "whatsapp",
		Tone:     "Concise",
		Text:     "Keep WhatsApp messages under a few lines. Lead with the point, drop greetings when the conversation is already going, and split separate topics into separate messages.",
	},
	{
		ID:       "guideline-linkedin-professional",
		Title:    "LinkedIn professional posts",
		Platform: "linkedin",
		Tone:     "Professional",
		Text:     "LinkedIn rewards a professional register: complete sentences, no slang, short paragraphs with a clear ask. Open with the takeaway rather than a wind-up, and close with a concrete next step.",
	},
	{
		ID:       "guideline-linkedin-persuasive",
		Title:    "LinkedIn persuasive framing",
		Platform: "linkedin",
		Tone:     "Persuasive",
		Text:     "Persuasive LinkedIn messages state the benefit to the reader in the first sentence. Quantify impact where possible and end with one specific call to action, not a list of options.",
	},
	{
		ID:       "guideline-email-professional",
		Title:    "Professional email structure",
		Platform: "email",
		Tone:     "Professional",
		Text:     "A professional email has a clear subject, a polite greeting, one key ask stated early, and a short signature. Keep it to one screen; move detail to an attachment or link.",
	},
	{
		ID:       "guideline-email-empathetic",
		Title:    "Empathetic email replies",
		Platform: "email",
		Tone:     "Empathetic",
		Text:     "When replying to a frustrated sender, acknowledge their situation in the first sentence before explaining or asking anything. Phrases like 'I understand this has been frustrating' defuse better than immediate solutions.",
	},
	{
		ID:       "guideline-twitter-concise",
		Title:    "Twitter brevity",
		Platform: "twitter",
		Tone:     "Concise",
		Text:     "Twitter posts should be action-oriented and fit well under the character limit. Cut adjectives, use strong verbs, and limit hashtags to one or two that people actually search.",
	},
	{
		ID:       "guideline-sms-concise",
		Title:    "SMS essentials",
		Platform: "sms",
		Tone:     "Concise",
		Text:     "An SMS carries one clear ask and nothing else. No links unless necessary, no hashtags, no line breaks. If it needs two paragraphs, it should be an email.",
	},
	{
		ID:    "guideline-generic-empathetic",
		Title: "Empathetic phrasing",
		Tone:  "Empathetic",
		Text:  "Empathetic rewrites name the reader's likely feeling before the request: 'I know the timing is tight' or 'Thanks for bearing with the back-and-forth'. Softening the ask does not mean burying it.",
	},
	{
		ID:    "guideline-generic-persuasive",
		Title: "Persuasive structure",
		Tone:  "Persuasive",
		Text:  "Persuasion is benefit-first: what the reader gains, stated concretely, then the evidence, then the ask. Hedging words like 'maybe' and 'I think' weaken the close.",
	},
}

// SeedDefaults upserts the built-in guideline corpus into the store and
// returns how many documents were written.
func SeedDefaults(ctx context.Context, store Store) (int, error) {
	for i, doc := range defaultGuidelines {
		if err := store.Upsert(ctx, doc); err != nil {
			return i, fmt.Errorf("seed guideline %s: %w", doc.ID, err)
		}
	}
	return len(defaultGuidelines), nil
}

// UpsertUserExample stores an accepted rewrite as a personal style
// example so future retrievals for the same user can surface it.
// Returns the stored document ID.
func UpsertUserExample(ctx context.Context, store Store, userID, message, platform, targetTone, acceptedText string) (string, error) {
	if userID == "" {
		return "", fmt.Errorf("user ID is required")
	}
	if acceptedText == "" {
		return "", fmt.Errorf("accepted text is required")
	}

	doc := Document{
		ID:       "user-example-" + uuid.New().String(),
		Title:    fmt.Sprintf("Accepted %s rewrite", targetTone),
		Text:     fmt.Sprintf("Original: %s\nAccepted rewrite: %s", message, acceptedText),
		Platform: strings.ToLower(strings.TrimSpace(platform)),
		Tone:     targetTone,
		UserID:   userID,
	}
	if doc.Platform == "" {
		doc.Platform = "generic"
	}

	if err := store.Upsert(ctx, doc); err != nil {
		return "", fmt.Errorf("store user example: %w", err)
	}
	return doc.ID, nil
}
