package campaign

import (
	"fmt"
	"strings"

	"campaigngen/internal/domain"
)

// PromptDefaults fills optional request fields that the caller left empty.
type PromptDefaults struct {
	Industry       string
	TargetAudience string
	Tone           string
}

// DefaultPromptDefaults returns the stock fallbacks.
func DefaultPromptDefaults() PromptDefaults {
	return PromptDefaults{
		Industry:       "General",
		TargetAudience: "General consumers",
		Tone:           "Professional and engaging",
	}
}

func (d PromptDefaults) resolve(req domain.GenerationRequest) (industry, audience, tone string) {
	industry = orDefault(req.Industry, d.Industry)
	audience = orDefault(req.TargetAudience, d.TargetAudience)
	tone = orDefault(req.Tone, d.Tone)
	return industry, audience, tone
}

// BuildCampaignPrompt renders the copywriting prompt for req.
func BuildCampaignPrompt(req domain.GenerationRequest, defaults PromptDefaults) string {
	industry, audience, tone := defaults.resolve(req)

	sb := &strings.Builder{}
	sb.WriteString("You are an expert marketing copywriter specializing in creating compelling campaign messages.\n\n")
	sb.WriteString("Create a persuasive and engaging campaign message based on the following requirements:\n\n")
	fmt.Fprintf(sb, "Main Prompt: %s\n", req.Prompt)
	fmt.Fprintf(sb, "Industry: %s\n", industry)
	fmt.Fprintf(sb, "Target Audience: %s\n", audience)
	fmt.Fprintf(sb, "Tone: %s\n\n", tone)
	sb.WriteString("Requirements:\n")
	sb.WriteString("1. Keep the message concise but impactful (50-150 words)\n")
	sb.WriteString("2. Include a clear call-to-action\n")
	sb.WriteString("3. Use persuasive language that resonates with the target audience\n")
	sb.WriteString("4. Maintain the specified tone throughout\n")
	sb.WriteString("5. Focus on benefits and value proposition\n")
	sb.WriteString("6. Make it memorable and shareable\n\n")
	sb.WriteString("Return only the campaign message without any additional formatting or explanations.\n")
	return sb.String()
}

// AnalysisCriteria lists the rubric dimensions in prompt order.
var AnalysisCriteria = [...]string{
	"Clarity and readability",
	"Emotional appeal",
	"Call-to-action strength",
	"Target audience alignment",
	"Overall persuasiveness",
}

// BuildAnalysisPrompt renders the fixed rubric prompt for message.
func BuildAnalysisPrompt(message string) string {
	sb := &strings.Builder{}
	sb.WriteString("Analyze the following campaign message for effectiveness:\n\n")
	fmt.Fprintf(sb, "\"%s\"\n\n", message)
	sb.WriteString("Provide a brief analysis covering:\n")
	for i, c := range AnalysisCriteria {
		fmt.Fprintf(sb, "%d. %s\n", i+1, c)
	}
	sb.WriteString("\nRate each aspect from 1-10 and provide a brief explanation.\n")
	return sb.String()
}

// VariationPrompt marks prompt as the variation with 0-based index i.
func VariationPrompt(prompt string, i int) string {
	return fmt.Sprintf("%s (Variation %d)", prompt, i+1)
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
