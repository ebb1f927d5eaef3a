package resolve

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"reclaim/internal/catalog"
)

// ErrOperatorUnavailable indicates a decision point was reached but no
// operator can answer, e.g. a multi-model group during a headless run.
var ErrOperatorUnavailable = errors.New("operator input unavailable")

// Candidate describes one delete decision presented to the operator.
type Candidate struct {
	Keeper      catalog.Record
	Loser       catalog.Record
	FramesMatch bool
	Index       int
	Total       int
}

// Decider answers the two operator questions the driver can ask: whether to
// delete a candidate, and which source model to preserve in a multi-model
// group.
type Decider interface {
	ConfirmDelete(candidate Candidate) (bool, error)
	ChooseModel(models []string) (string, error)
}

// TerminalDecider prompts on the given reader/writer pair, normally stdin
// and stdout.
type TerminalDecider struct {
	in  *bufio.Reader
	out io.Writer
}

// NewTerminalDecider wires a Decider to the given streams.
func NewTerminalDecider(in io.Reader, out io.Writer) *TerminalDecider {
	return &TerminalDecider{in: bufio.NewReader(in), out: out}
}

// ConfirmDelete asks for a yes/no answer. Anything other than an explicit
// negative counts as yes.
func (d *TerminalDecider) ConfirmDelete(Candidate) (bool, error) {
	fmt.Fprint(d.out, "Do you want to delete this file? (Y/n): ")
	line, err := d.in.ReadString('\n')
	if err != nil && line == "" {
		return false, fmt.Errorf("%w: %v", ErrOperatorUnavailable, err)
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer != "n" && answer != "no", nil
}

// ChooseModel asks which source model to preserve and re-prompts until the
// answer matches one of the models present in the group.
func (d *TerminalDecider) ChooseModel(models []string) (string, error) {
	present := make(map[string]struct{}, len(models))
	for _, model := range models {
		present[model] = struct{}{}
	}

	for {
		fmt.Fprintf(d.out, "Models present: %s\n", strings.Join(models, ", "))
		fmt.Fprint(d.out, "Enter the file model you want to preserve: ")
		line, err := d.in.ReadString('\n')
		if err != nil && line == "" {
			return "", fmt.Errorf("%w: %v", ErrOperatorUnavailable, err)
		}
		answer := strings.TrimSpace(line)
		if _, ok := present[answer]; ok {
			fmt.Fprintln(d.out)
			return answer, nil
		}
		fmt.Fprintf(d.out, "Unknown model %q, try again.\n", answer)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrOperatorUnavailable, err)
		}
	}
}

// HeadlessDecider refuses every question. Automatic runs use it so that
// decision points requiring an operator surface as skipped groups instead of
// blocking on a closed stdin.
type HeadlessDecider struct{}

func (HeadlessDecider) ConfirmDelete(Candidate) (bool, error) {
	return false, ErrOperatorUnavailable
}

func (HeadlessDecider) ChooseModel([]string) (string, error) {
	return "", ErrOperatorUnavailable
}
