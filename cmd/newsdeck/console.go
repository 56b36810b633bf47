package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/umputun/newsdeck/pkg/domain"
	"github.com/umputun/newsdeck/pkg/pipeline"
)

const maxPromptAttempts = 3

var stageLabels = map[pipeline.State]string{
	pipeline.StateExtracting:   "searching news",
	pipeline.StateSummarizing:  "summarizing articles",
	pipeline.StateCategorizing: "categorizing by theme",
	pipeline.StateRendering:    "rendering slide deck",
}

type styles struct {
	title, prompt, step, ok, fail, dim lipgloss.Style
}

func newStyles(noColor bool) styles {
	if noColor {
		plain := lipgloss.NewStyle()
		return styles{title: plain, prompt: plain, step: plain, ok: plain, fail: plain, dim: plain}
	}
	return styles{
		title:  lipgloss.NewStyle().Foreground(lipgloss.Color("#0969DA")).Bold(true),
		prompt: lipgloss.NewStyle().Foreground(lipgloss.Color("#8250DF")).Bold(true),
		step:   lipgloss.NewStyle().Foreground(lipgloss.Color("#58A6FF")),
		ok:     lipgloss.NewStyle().Foreground(lipgloss.Color("#2DA44E")).Bold(true),
		fail:   lipgloss.NewStyle().Foreground(lipgloss.Color("#CF222E")).Bold(true),
		dim:    lipgloss.NewStyle().Foreground(lipgloss.Color("#6E7681")),
	}
}

// console talks to the user of a single CLI run: prompts for missing input and reports progress
type console struct {
	in          *bufio.Reader
	out         io.Writer
	interactive bool
	st          styles
}

// newConsole makes console, prompts are enabled only if in is a terminal
func newConsole(in io.Reader, out io.Writer, noColor bool) *console {
	interactive := false
	if f, ok := in.(*os.File); ok {
		interactive = term.IsTerminal(int(f.Fd())) //nolint:gosec // fd fits int
	}
	return &console{in: bufio.NewReader(in), out: out, interactive: interactive, st: newStyles(noColor)}
}

// collectInput fills inputs missing on the command line, asking for them on a terminal.
// Without a terminal company and type are required flags.
func (c *console) collectInput(opts Opts) (pipeline.Input, error) {
	in := pipeline.Input{Company: strings.TrimSpace(opts.Company), Relationship: domain.RelationshipType(opts.Type), Count: opts.Count}
	needPrompt := in.Company == "" || opts.Type == "" || opts.Count == 0
	if needPrompt && c.interactive {
		c.println(c.st.title.Render("Company news report"))
	}

	if in.Company == "" {
		if !c.interactive {
			return in, fmt.Errorf("%w: company name is required, use --company", domain.ErrInvalidInput)
		}
		company, err := c.ask("Company name: ", func(s string) (string, error) {
			if s == "" {
				return "", errors.New("company name can't be empty")
			}
			return s, nil
		})
		if err != nil {
			return in, err
		}
		in.Company = company
	}

	if opts.Type == "" {
		if !c.interactive {
			return in, fmt.Errorf("%w: relationship type is required, use --type", domain.ErrInvalidInput)
		}
		rel, err := c.ask("Relationship type, 1) competitor 2) potential customer: ", func(s string) (string, error) {
			switch s {
			case "1":
				return string(domain.RelationshipCompetitor), nil
			case "2":
				return string(domain.RelationshipPotentialCustomer), nil
			}
			r, err := domain.ParseRelationship(s)
			return string(r), err
		})
		if err != nil {
			return in, err
		}
		in.Relationship = domain.RelationshipType(rel)
	}

	if opts.Count == 0 && c.interactive {
		count, err := c.ask(fmt.Sprintf("Number of articles [%d]: ", pipeline.DefaultCount), func(s string) (string, error) {
			if s == "" {
				return strconv.Itoa(pipeline.DefaultCount), nil
			}
			n, err := strconv.Atoi(s)
			if err != nil || n < 1 || n > pipeline.MaxCount {
				return "", fmt.Errorf("enter a number between 1 and %d", pipeline.MaxCount)
			}
			return s, nil
		})
		if err != nil {
			return in, err
		}
		in.Count, _ = strconv.Atoi(count)
	}

	return in.Normalize()
}

// ask prompts until check accepts the answer, giving up after a few attempts or on closed input
func (c *console) ask(prompt string, check func(string) (string, error)) (string, error) {
	for range maxPromptAttempts {
		fmt.Fprint(c.out, c.st.prompt.Render(prompt))
		line, err := c.in.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return "", fmt.Errorf("%w: no answer to %q", domain.ErrInvalidInput, strings.TrimSpace(prompt))
		}
		res, checkErr := check(strings.TrimSpace(line))
		if checkErr == nil {
			return res, nil
		}
		c.println(c.st.fail.Render(checkErr.Error()))
	}
	return "", fmt.Errorf("%w: too many invalid answers", domain.ErrInvalidInput)
}

// progress prints pipeline transitions, used as pipeline.Observer
func (c *console) progress(state pipeline.State, _ error) {
	if label, ok := stageLabels[state]; ok {
		c.println(c.st.step.Render("▸ " + label + "..."))
	}
}

func (c *console) success(res *pipeline.Result) {
	c.println(c.st.ok.Render("✓ report ready: ") + res.OutputPath)
	c.println(c.st.dim.Render(fmt.Sprintf("  %d articles found, %d summarized, %d in the deck across %d themes",
		res.Extracted, res.Summarized, res.Report.ArticleCount(), len(res.Report.Groups))))
}

func (c *console) failure(err error) {
	msg := err.Error()
	var serr *pipeline.StageError
	if errors.As(err, &serr) {
		msg = fmt.Sprintf("%s failed: %v", stageLabels[serr.Stage], serr.Err)
	}
	c.println(c.st.fail.Render("✗ " + msg))
}

func (c *console) println(s string) {
	fmt.Fprintln(c.out, s)
}
