package logging

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"github.com/veryl-lang/veryl-sub003/common"
	"github.com/veryl-lang/veryl-sub003/resource"
)

var (
	SuccessColorFG = pterm.FgLightGreen
	SuccessStyleBG = pterm.NewStyle(pterm.BgLightGreen, pterm.FgBlack)
	WarnColorFG    = pterm.FgYellow
	WarnStyleBG    = pterm.NewStyle(pterm.BgYellow, pterm.FgBlack)
	ErrorColorFG   = pterm.FgRed
	ErrorStyleBG   = pterm.NewStyle(pterm.BgRed, pterm.FgWhite)
	InfoColorFG    = SuccessColorFG
	InfoStyleBG    = SuccessStyleBG
)

// PrintErrorMessage prints a standard Go error to the console
func PrintErrorMessage(tag string, err error) {
	ErrorStyleBG.Print(tag)
	ErrorColorFG.Println(" " + err.Error())
}

// PrintWarningMessage prints a warning message to the console
func PrintWarningMessage(tag, msg string) {
	WarnStyleBG.Print(tag)
	WarnColorFG.Println(" " + msg)
}

// PrintInfoMessage prints an informational message to the user
func PrintInfoMessage(tag, msg string) {
	InfoStyleBG.Print(tag)
	InfoColorFG.Println(" " + msg)
}

// -----------------------------------------------------------------------------

func (ce *ConfigError) display() {
	PrintErrorMessage(ce.Kind+" Error", errors.New(ce.Message))
}

func (d *Diagnostic) display() {
	d.displayBanner()
	fmt.Println(d.Message)

	if d.Token.Source != resource.BuiltinPath && d.Token.Line > 0 {
		d.displayCodeSelection()
	}
}

// displayBanner displays the banner on top of all diagnostics
func (d *Diagnostic) displayBanner() {
	fmt.Print("\n\n-- ")
	kindStr := categories[d.Code]
	kindLen := len(kindStr)
	if d.IsError {
		ErrorStyleBG.Print(kindStr + " Error")
		kindLen += 7
	} else {
		WarnStyleBG.Print(kindStr + " Warning")
		kindLen += 9
	}

	fmt.Print(" ")

	fileName := "<builtin>"
	if d.Token.Source != resource.BuiltinPath {
		fileName = filepath.Base(d.Token.Source.String())
	}

	bannerLen := pterm.GetTerminalWidth() / 2
	if bannerLen > 50 {
		bannerLen = 50
	}

	dashCount := bannerLen - len(fileName) - kindLen - 1
	if dashCount < 2 {
		dashCount = 2
	}

	fmt.Print(strings.Repeat("-", dashCount) + " ")
	InfoColorFG.Println(fileName)
}

// displayCodeSelection displays the offending line (with its line number) and
// underlines the token.  Trees handed to the analyzer need not come from files
// on disk; when the file can not be read nothing is shown.
func (d *Diagnostic) displayCodeSelection() {
	f, err := os.Open(d.Token.Source.String())
	if err != nil {
		return
	}
	defer f.Close()

	line := ""
	found := false
	sc := bufio.NewScanner(f)
	for lineNumber := 1; sc.Scan(); lineNumber++ {
		if lineNumber == d.Token.Line {
			line = strings.ReplaceAll(sc.Text(), "\t", "    ")
			found = true
			break
		}
	}

	if !found {
		return
	}

	fmt.Println()

	lineNumberWidth := len(strconv.Itoa(d.Token.Line)) + 1
	InfoColorFG.Print(fmt.Sprintf("%-"+strconv.Itoa(lineNumberWidth)+"v", d.Token.Line))
	fmt.Print("|  ")
	fmt.Println(line)

	indent := d.Token.Column - 1
	if indent < 0 {
		indent = 0
	}

	carets := d.Token.Length
	if carets < 1 {
		carets = 1
	}

	fmt.Print(strings.Repeat(" ", lineNumberWidth), "|  ")
	fmt.Print(strings.Repeat(" ", indent))
	ErrorColorFG.Println(strings.Repeat("^", carets))

	fmt.Println()
}

// -----------------------------------------------------------------------------

// displayHeader displays the analyzer information before starting analysis
func displayHeader(project string) {
	fmt.Print("veryl ")
	InfoColorFG.Print("v" + common.VerylVersion)
	fmt.Print(" -- project: ")
	InfoColorFG.Println(project)
}

// phaseSpinner stores the current phase spinner
var phaseSpinner *pterm.SpinnerPrinter
var currentPhase string
var phaseStartTime time.Time

const maxPhaseLength = len("Elaborating")

// displayBeginPhase displays the beginning of an analysis phase
func displayBeginPhase(phase string) {
	currentPhase = phase
	phaseText := phase + "..." + strings.Repeat(" ", maxPhaseLength-len(phase)+2)
	phaseSpinner = pterm.DefaultSpinner.WithStyle(pterm.NewStyle(InfoColorFG))

	phaseSpinner.SuccessPrinter = &pterm.PrefixPrinter{
		MessageStyle: pterm.NewStyle(pterm.FgDefault),
		Prefix: pterm.Prefix{
			Style: SuccessStyleBG,
			Text:  "Done",
		},
	}

	phaseSpinner.FailPrinter = &pterm.PrefixPrinter{
		MessageStyle: pterm.NewStyle(pterm.FgDefault),
		Prefix: pterm.Prefix{
			Style: ErrorStyleBG,
			Text:  "Fail",
		},
	}

	phaseSpinner.Start(phaseText)
	phaseStartTime = time.Now()
}

// displayEndPhase displays the end of an analysis phase
func displayEndPhase(success bool) {
	if phaseSpinner != nil {
		if success {
			phaseSpinner.Success(
				currentPhase+strings.Repeat(" ", maxPhaseLength-len(currentPhase)+2),
				fmt.Sprintf("(%.3fs)", time.Since(phaseStartTime).Seconds()),
			)
		} else {
			phaseSpinner.Fail(currentPhase + strings.Repeat(" ", maxPhaseLength-len(currentPhase)+2))
		}

		phaseSpinner = nil
	}
}

// displayFinished displays the closing summary
func displayFinished(success bool, errorCount, warningCount int) {
	fmt.Print("\n")

	if success {
		SuccessColorFG.Print("All done! ")
	} else {
		ErrorColorFG.Print("Oh no! ")
	}

	fmt.Print("(")

	switch errorCount {
	case 0:
		SuccessColorFG.Print(0)
		fmt.Print(" errors, ")
	case 1:
		ErrorColorFG.Print(1)
		fmt.Print(" error, ")
	default:
		ErrorColorFG.Print(errorCount)
		fmt.Print(" errors, ")
	}

	switch warningCount {
	case 0:
		SuccessColorFG.Print(0)
		fmt.Println(" warnings)")
	case 1:
		WarnColorFG.Print(1)
		fmt.Println(" warning)")
	default:
		WarnColorFG.Print(warningCount)
		fmt.Println(" warnings)")
	}
}
