// Package ui provides styled console output for the arena CLI: the key
// status report, the per-provider comparison rendering, and the connection
// check summary.
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/promptarena/arena/internal/domain"
)

var (
	// Badge colors
	okBadge   = color.New(color.BgGreen, color.FgBlack, color.Bold)
	failBadge = color.New(color.BgRed, color.FgWhite, color.Bold)
	warnBadge = color.New(color.FgYellow, color.Bold)
	infoBadge = color.New(color.FgCyan, color.Bold)

	// Text colors
	okText     = color.New(color.FgGreen, color.Bold)
	warnText   = color.New(color.FgYellow)
	failText   = color.New(color.FgRed)
	infoText   = color.New(color.FgCyan)
	mutedText  = color.New(color.FgHiBlack)
	accentText = color.New(color.FgMagenta, color.Bold)
)

// providerLabels maps provider names to their display labels.
var providerLabels = map[domain.ProviderType]string{
	domain.ProviderOpenAI:    "OpenAI GPT",
	domain.ProviderAnthropic: "Anthropic Claude",
	domain.ProviderGoogle:    "Google Gemini",
	domain.ProviderMeta:      "Meta Llama",
}

// Label returns the display label for a provider.
func Label(name domain.ProviderType) string {
	if label, ok := providerLabels[name]; ok {
		return label
	}
	return string(name)
}

// PrintKeyStatus renders the startup credential report: one line per
// provider, marking which are configured and which are excluded.
func PrintKeyStatus(active, excluded []domain.ProviderConfig) {
	fmt.Println()
	infoBadge.Println("[KEYS] Provider credential status")
	mutedText.Println(strings.Repeat("-", 45))

	for _, p := range active {
		okText.Print("  ✓ ")
		fmt.Printf("%-18s", Label(p.Name))
		mutedText.Printf(" model=%s", p.Model)
		if p.HasBackupKey() {
			accentText.Print("  +backup key")
		}
		fmt.Println()
	}

	for _, p := range excluded {
		failText.Print("  ✗ ")
		fmt.Printf("%-18s", Label(p.Name))
		if !p.Enabled {
			mutedText.Print(" disabled")
		} else {
			mutedText.Print(" no API key, excluded from batches")
		}
		fmt.Println()
	}

	fmt.Println()
	fmt.Printf("%d/%d providers configured\n", len(active), len(active)+len(excluded))
}

// PrintComparison renders a full comparison batch, one section per provider.
func PrintComparison(batch domain.ComparisonBatch) {
	fmt.Println()
	accentText.Printf("Prompt: ")
	fmt.Println(batch.Prompt)
	if batch.SystemPrompt != "" {
		accentText.Printf("System: ")
		fmt.Println(batch.SystemPrompt)
	}
	mutedText.Println(strings.Repeat("═", 70))

	for _, r := range batch.Results {
		fmt.Println()
		printResultHeader(r)
		mutedText.Println(strings.Repeat("-", 70))

		if r.OK() {
			fmt.Println(r.Text)
			mutedText.Printf("~%d tokens\n", EstimateTokens(r.Text))
		} else {
			failText.Printf("no response (%s)\n", r.Status)
			if r.Detail != "" {
				mutedText.Println(r.Detail)
			}
		}
	}

	fmt.Println()
	mutedText.Println(strings.Repeat("═", 70))
	fmt.Printf("%d/%d providers answered in ", batch.SuccessCount(), len(batch.Results))
	printLatency(batch.Elapsed)
	fmt.Println()
}

// printResultHeader prints one provider's status line.
func printResultHeader(r domain.InvocationResult) {
	if r.OK() {
		okBadge.Print(" OK ")
	} else {
		failBadge.Printf(" %s ", strings.ToUpper(string(r.Status)))
	}
	fmt.Print(" ")
	infoText.Print(Label(r.Provider))
	fmt.Print("  ")
	printLatency(r.Latency)
	if r.KeyUsed == domain.KeyBackup {
		fmt.Print("  ")
		warnBadge.Print("[BACKUP KEY]")
	}
	fmt.Println()
}

// PrintConnectionCheck renders the connection check summary.
func PrintConnectionCheck(batch domain.ComparisonBatch) {
	fmt.Println()
	infoBadge.Println("[CHECK] Provider connection test")
	mutedText.Println(strings.Repeat("-", 45))

	for _, r := range batch.Results {
		if r.OK() {
			okText.Print("  ✓ ")
			fmt.Printf("%-18s", Label(r.Provider))
			printLatency(r.Latency)
			if r.KeyUsed == domain.KeyBackup {
				warnText.Print("  (backup key)")
			}
		} else {
			failText.Print("  ✗ ")
			fmt.Printf("%-18s", Label(r.Provider))
			failText.Printf("%s", r.Status)
		}
		fmt.Println()
	}

	working := batch.SuccessCount()
	total := len(batch.Results)
	fmt.Println()
	switch {
	case total == 0:
		warnText.Println("No providers configured — add API keys to your .env file.")
	case working == total:
		okText.Printf("All %d providers are working.\n", total)
	case working > 0:
		warnText.Printf("%d/%d providers working.\n", working, total)
	default:
		failText.Println("No providers responded — check your API keys and network.")
	}
}

// PrintPrompt prints the interactive mode prompt marker.
func PrintPrompt() {
	accentText.Print("\nprompt> ")
}

// PrintShutdown prints a styled shutdown message.
func PrintShutdown() {
	fmt.Println()
	warnBadge.Print("[SHUTDOWN]")
	warnText.Println(" Graceful shutdown initiated...")
}

// printLatency prints latency with a color gradient.
// Green: < 2s, Yellow: < 10s, Red: >= 10s — provider calls are slow.
func printLatency(latency time.Duration) {
	latencyStr := latency.Round(time.Millisecond).String()

	switch {
	case latency < 2*time.Second:
		okText.Print(latencyStr)
	case latency < 10*time.Second:
		warnText.Print(latencyStr)
	default:
		failText.Print(latencyStr)
	}
}
