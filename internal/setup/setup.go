// Package setup provides the interactive first-run wizard. It walks
// through the model backend key, model choices, and game variants, then
// writes config.yaml and credentials.toml.
package setup

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/openclaw/parley/internal/config"
	"github.com/openclaw/parley/internal/console"
	"github.com/openclaw/parley/internal/credentials"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	stepStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// step is one wizard question. apply parses the answer into the config
// or credentials; an empty answer keeps the shown default.
type step struct {
	prompt      string
	placeholder string
	secret      bool
	apply       func(*Answers, string) error
}

// Answers collects everything the wizard gathers.
type Answers struct {
	APIKey string
	Config *config.Config
}

func steps() []step {
	return []step{
		{
			prompt:      "Gemini API key",
			placeholder: "paste key, or leave blank to use the environment",
			secret:      true,
			apply: func(a *Answers, v string) error {
				a.APIKey = v
				return nil
			},
		},
		{
			prompt:      "Model for planning, reflection, and orders",
			placeholder: "gemini-2.5-pro",
			apply: func(a *Answers, v string) error {
				if v != "" {
					a.Config.Model = v
				}
				return nil
			},
		},
		{
			prompt:      "Economical model for negotiation rounds",
			placeholder: "gemini-2.5-flash",
			apply: func(a *Answers, v string) error {
				if v != "" {
					a.Config.CheapModel = v
				}
				return nil
			},
		},
		{
			prompt:      "Negotiation rounds per season",
			placeholder: "2",
			apply: func(a *Answers, v string) error {
				if v == "" {
					return nil
				}
				n, err := strconv.Atoi(v)
				if err != nil || n < 1 {
					return fmt.Errorf("rounds must be a positive number")
				}
				a.Config.Season.TurnRounds = n
				return nil
			},
		},
		{
			prompt:      "Fog of war? (y/N)",
			placeholder: "n",
			apply: func(a *Answers, v string) error {
				a.Config.Features.FogOfWar = isYes(v)
				return nil
			},
		},
		{
			prompt:      "Gunboat (no messaging)? (y/N)",
			placeholder: "n",
			apply: func(a *Answers, v string) error {
				a.Config.Features.Gunboat = isYes(v)
				return nil
			},
		},
	}
}

func isYes(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "y", "yes", "true":
		return true
	}
	return false
}

type model struct {
	steps   []step
	index   int
	input   textinput.Model
	answers *Answers
	errMsg  string
	done    bool
	aborted bool
}

func newModel() model {
	s := steps()
	m := model{
		steps:   s,
		answers: &Answers{Config: config.Default()},
	}
	m.input = newInput(s[0])
	return m
}

func newInput(s step) textinput.Model {
	input := textinput.New()
	input.Placeholder = s.placeholder
	input.Focus()
	input.CharLimit = 200
	input.Width = 48
	if s.secret {
		input.EchoMode = textinput.EchoPassword
	}
	return input
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.aborted = true
			return m, tea.Quit
		case tea.KeyEnter:
			if err := m.steps[m.index].apply(m.answers, strings.TrimSpace(m.input.Value())); err != nil {
				m.errMsg = err.Error()
				return m, nil
			}
			m.errMsg = ""
			m.index++
			if m.index >= len(m.steps) {
				m.done = true
				return m, tea.Quit
			}
			m.input = newInput(m.steps[m.index])
			return m, textinput.Blink
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) View() string {
	if m.done || m.aborted {
		return ""
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render("Parley setup") + "\n\n")
	b.WriteString(stepStyle.Render(fmt.Sprintf("Step %d of %d", m.index+1, len(m.steps))) + "\n")
	b.WriteString(promptStyle.Render(m.steps[m.index].prompt) + "\n")
	b.WriteString(m.input.View() + "\n")
	if m.errMsg != "" {
		b.WriteString(errStyle.Render(m.errMsg) + "\n")
	}
	b.WriteString(stepStyle.Render("enter to accept, esc to abort") + "\n")
	return b.String()
}

// Run walks the wizard and writes config.yaml and credentials.toml in
// the working directory.
func Run(configPath, credentialsPath string, out *console.Reporter) error {
	prog := tea.NewProgram(newModel())
	final, err := prog.Run()
	if err != nil {
		return err
	}
	m := final.(model)
	if m.aborted {
		out.Warnf("setup aborted, nothing written")
		return nil
	}
	return Write(m.answers, configPath, credentialsPath, out)
}

// Write persists the gathered answers.
func Write(a *Answers, configPath, credentialsPath string, out *console.Reporter) error {
	data, err := yaml.Marshal(a.Config)
	if err != nil {
		return err
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return err
	}
	out.Successf("wrote %s", configPath)

	if a.APIKey == "" {
		out.Warnf("no API key entered, relying on %s", credentials.EnvKey)
		return nil
	}
	f, err := os.OpenFile(credentialsPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()
	creds := credentials.Credentials{Google: &credentials.ProviderCreds{APIKey: a.APIKey}}
	if err := toml.NewEncoder(f).Encode(creds); err != nil {
		return err
	}
	out.Successf("wrote %s", credentialsPath)
	return nil
}
