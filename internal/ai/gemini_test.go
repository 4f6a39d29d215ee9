package ai

import (
	"strings"
	"testing"
)

func TestDecodeResumeJSONStripsFences(t *testing.T) {
	raw := "```json\n{\"skills\":[{\"title\":\"Languages\",\"technologies\":\"Go, SQL\"}],\"projects\":[]}\n```"

	parsed, err := DecodeResumeJSON(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(parsed.Skills) != 1 {
		t.Fatalf("skills = %d", len(parsed.Skills))
	}
	if parsed.Skills[0]["technologies"] != "Go, SQL" {
		t.Errorf("technologies = %v", parsed.Skills[0]["technologies"])
	}
}

func TestDecodeResumeJSONPlain(t *testing.T) {
	parsed, err := DecodeResumeJSON(`{"achievements":[{"title":"Winner","description":"Hackathon"}]}`)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(parsed.Achievements) != 1 || parsed.Achievements[0]["title"] != "Winner" {
		t.Errorf("achievements = %+v", parsed.Achievements)
	}
}

func TestDecodeResumeJSONRejectsProse(t *testing.T) {
	if _, err := DecodeResumeJSON("Sorry, I cannot extract that."); err == nil {
		t.Fatal("expected error for non-JSON output")
	}
}

func TestBuildPromptCapsInput(t *testing.T) {
	long := strings.Repeat("x", maxPromptChars+5000)
	prompt := buildPrompt(long)

	if len(prompt) > maxPromptChars+1000 {
		t.Errorf("prompt length %d, input cap not applied", len(prompt))
	}
	if !strings.Contains(prompt, "Return ONLY valid JSON") {
		t.Error("prompt lost its output instructions")
	}
}
