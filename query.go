package reconcile

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"
)

// Recognized sort keys. Any other string is passed through to the tool
// verbatim as a sort expression.
const (
	SortNone   = "(0)" // file order
	SortDate   = "(date)"
	SortAmount = "(amount)"
	SortPayee  = "(payee)"
)

// Runner abstracts the external ledger binary so the engine can be
// exercised without it. Run invokes the tool with the given arguments,
// feeding stdin when non-empty, and returns its standard output.
type Runner interface {
	Run(args []string, stdin string) ([]byte, error)
}

// ExecRunner runs the real ledger binary.
type ExecRunner struct {
	Binary string // defaults to "ledger"
}

func (r ExecRunner) Run(args []string, stdin string) ([]byte, error) {
	binary := r.Binary
	if binary == "" {
		binary = "ledger"
	}
	if _, err := exec.LookPath(binary); err != nil {
		return nil, fmt.Errorf("ledger tool not available: %w", err)
	}
	cmd := exec.Command(binary, args...)
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return nil, fmt.Errorf("%s %s: %w: %s", binary, args[0], err, msg)
		}
		return nil, fmt.Errorf("%s %s: %w", binary, args[0], err)
	}
	return stdout.Bytes(), nil
}

// queryInput selects how the document reaches the tool: an unsaved or
// pathless document is piped on stdin with the conventional "-" file
// designator, a clean one is referenced by path.
func queryInput(doc *Document) (file, stdin string) {
	if doc.Path() == "" || doc.Dirty() {
		return "-", doc.Contents()
	}
	return doc.Path(), ""
}

// QueryXacts asks the tool for the uncleared, real postings of account
// in doc, sorted by sortKey. The tool's ordering is preserved exactly;
// unparseable or empty output yields an empty sequence, while a failure
// to run the tool is surfaced to the caller.
func QueryXacts(r Runner, doc *Document, account, sortKey string) ([]Transaction, error) {
	file, stdin := queryInput(doc)
	if sortKey == "" {
		sortKey = SortNone
	}
	args := []string{
		"-f", file,
		"--uncleared",
		"--real",
		"--sort", sortKey,
		"emacs",
		account,
	}
	out, err := r.Run(args, stdin)
	if err != nil {
		return nil, err
	}
	return decodeTransactions(string(out))
}

// QueryBalance asks the tool for the cleared-or-pending balance of
// account in doc, collapsed to a single figure.
func QueryBalance(r Runner, doc *Document, account string) (Amount, error) {
	file, stdin := queryInput(doc)
	args := []string{
		"-f", file,
		"--real",
		"--limit", "cleared or pending",
		"--empty",
		"--collapse",
		"--format", "%(scrub(display_total))",
		"balance",
		account,
	}
	out, err := r.Run(args, stdin)
	if err != nil {
		return Amount{}, err
	}
	text := strings.TrimSpace(string(out))
	if text == "" || text == "0" {
		return Amount{}, nil
	}
	amount, err := ParseAmount(text)
	if err != nil {
		return Amount{}, fmt.Errorf("balance query: %w", err)
	}
	return amount, nil
}
