package generation

import (
	"fmt"
	"strings"
)

const ideaSystemPrompt = "You are a creative social media marketing strategist."

func buildIdeaPrompt(briefContent, campaignMessage, region, demographic string) string {
	lang := instructionForLanguage(LanguageForRegion(region))
	return fmt.Sprintf(`You are a creative social media marketing strategist. Generate a compelling creative idea for a social media campaign.

Product Brief:
%s

Campaign Message: %s
Target Region: %s
Target Demographic: %s
Target Language: %s

%s

Generate a creative concept that:
1. Resonates with the target demographic in this region
2. Incorporates the campaign message naturally
3. Is suitable for social media platforms (Instagram, Facebook, Twitter)
4. Considers regional cultural preferences and language
5. Is concise and actionable (2-3 sentences)
6. Is written in %s to match the target audience

Creative Idea:`, briefContent, campaignMessage, region, demographic, lang.name, lang.instruction, lang.name)
}

func buildImagePrompt(req CreativeRequest) string {
	var colorInfo string
	if len(req.BrandColors) > 0 {
		colorInfo = "\nUse brand colors: " + strings.Join(req.BrandColors, ", ")
	}

	langTag := req.LanguageCode
	if i := strings.Index(langTag, "-"); i > 0 {
		langTag = langTag[:i]
	}
	languageInstruction := "\nText language: " + strings.ToUpper(langTag)

	logoInstruction := "\nInclude a simple, elegant brand logo in the corner"
	if req.BrandName != "" {
		logoInstruction = fmt.Sprintf("\nInclude a professional logo in the corner with brand name '%s'", req.BrandName)
	}

	return fmt.Sprintf(`Professional social media creative image: %s

REQUIRED TEXT OVERLAY:
- Campaign message: "%s"
- Make the text prominent, readable, and professionally styled
- Position text overlay strategically on the image%s
%s
Target audience: %s in %s%s

Style: High quality, professional marketing imagery with clear text overlay and branding elements.`,
		req.IdeaContent, req.CampaignMessage, languageInstruction, logoInstruction,
		req.Demographic, req.Region, colorInfo)
}
