// Package ui provides styled console output for the arena CLI.
package ui

import (
	"fmt"

	"github.com/fatih/color"
)

// PrintBanner displays the ASCII art startup banner.
func PrintBanner() {
	cyan := color.New(color.FgCyan, color.Bold)
	magenta := color.New(color.FgMagenta, color.Bold)
	yellow := color.New(color.FgYellow, color.Bold)
	white := color.New(color.FgWhite)
	dim := color.New(color.FgHiBlack)

	fmt.Println()
	cyan.Println("╔══════════════════════════════════════════════════════════╗")

	cyan.Print("║  ")
	magenta.Print("█████╗ ██████╗ ███████╗███╗   ██╗ █████╗ ")
	cyan.Println("                ║")
	cyan.Print("║  ")
	magenta.Print("██╔══██╗██╔══██╗██╔════╝████╗  ██║██╔══██╗")
	cyan.Println("               ║")
	cyan.Print("║  ")
	magenta.Print("███████║██████╔╝█████╗  ██╔██╗ ██║███████║")
	cyan.Println("               ║")
	cyan.Print("║  ")
	magenta.Print("██╔══██║██╔══██╗██╔══╝  ██║╚██╗██║██╔══██║")
	cyan.Println("               ║")
	cyan.Print("║  ")
	magenta.Print("██║  ██║██║  ██║███████╗██║ ╚████║██║  ██║")
	cyan.Println("               ║")
	cyan.Print("║  ")
	magenta.Print("╚═╝  ╚═╝╚═╝  ╚═╝╚══════╝╚═╝  ╚═══╝╚═╝  ╚═╝")
	cyan.Println("               ║")

	cyan.Println("╠══════════════════════════════════════════════════════════╣")

	cyan.Print("║  ")
	yellow.Print("PROMPT ARENA")
	dim.Print("  │  ")
	white.Print("OpenAI • Claude • Gemini • Llama")
	dim.Print("  │  ")
	white.Print("v1.0")
	cyan.Println("  ║")

	cyan.Println("╚══════════════════════════════════════════════════════════╝")
	fmt.Println()
}

// PrintMiniBanner displays a smaller banner for constrained terminals.
func PrintMiniBanner() {
	cyan := color.New(color.FgCyan, color.Bold)
	magenta := color.New(color.FgMagenta, color.Bold)

	fmt.Println()
	cyan.Print("╔════════════════════════════════╗\n")
	cyan.Print("║  ")
	magenta.Print("PROMPT ARENA")
	cyan.Print("  4-model compare  ║\n")
	cyan.Print("╚════════════════════════════════╝\n")
	fmt.Println()
}
