package viz

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/swingsim/internal/config"
	"github.com/san-kum/swingsim/internal/session"
	"github.com/san-kum/swingsim/internal/sim"
)

// App is the interactive session: a parameter form, then playback of the
// simulated run. Pressing r during playback discards the run and returns to
// the form with the last values.
type App struct {
	sess   *session.Session
	form   paramForm
	player Player
	runs   int
}

func NewApp(form config.FormValues, opts ...sim.Option) App {
	return App{
		sess: session.New(form, opts...),
		form: newParamForm(form),
	}
}

func (a App) Phase() session.Phase { return a.sess.Phase() }

func (a App) Init() tea.Cmd { return nil }

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "ctrl+c" {
		return a, tea.Quit
	}

	switch a.sess.Phase() {
	case session.CollectingParameters:
		key, ok := msg.(tea.KeyMsg)
		if !ok {
			return a, nil
		}
		var action formAction
		a.form, action = a.form.update(key)
		switch action {
		case formQuit:
			return a, tea.Quit
		case formSubmit:
			return a.start()
		}

	case session.Simulating:
		if key, ok := msg.(tea.KeyMsg); ok && key.String() == "r" {
			a.sess.Reset()
			a.form = newParamForm(a.sess.Form())
			return a, nil
		}
		next, cmd := a.player.Update(msg)
		a.player = next.(Player)
		return a, cmd
	}
	return a, nil
}

func (a App) start() (tea.Model, tea.Cmd) {
	if err := a.sess.Start(a.form.values); err != nil {
		a.form.err = err
		return a, nil
	}
	a.form.err = nil
	a.runs++
	a.player = NewPlayer(a.sess.Series(), a.runs)
	return a, a.player.Init()
}

func (a App) View() string {
	if a.sess.Phase() == session.Simulating {
		return a.player.View()
	}
	return a.form.view()
}

func RunInteractive(form config.FormValues, opts ...sim.Option) error {
	_, err := tea.NewProgram(NewApp(form, opts...), tea.WithAltScreen()).Run()
	return err
}

// Play replays an existing series without the parameter form.
func Play(ts *sim.TimeSeries) error {
	_, err := tea.NewProgram(NewPlayer(ts, 1), tea.WithAltScreen()).Run()
	return err
}
