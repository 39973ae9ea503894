package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/swingsim/internal/config"
	"github.com/san-kum/swingsim/internal/dynamo"
	"github.com/san-kum/swingsim/internal/sim"
)

const (
	FPS           = 60
	canvasWidth   = 60
	canvasHeight  = 20
	pivotY        = 8
	speedWindow   = 2.0
	energyHistory = 300
	arrowHead     = 3.0
)

// tickMsg carries the id of the player that scheduled it so ticks from a
// discarded player are dropped.
type tickMsg struct {
	id int
	at time.Time
}

func tick(id int) tea.Cmd {
	return tea.Tick(time.Second/FPS, func(t time.Time) tea.Msg { return tickMsg{id: id, at: t} })
}

// Player replays a finished TimeSeries one frame per tick. It never
// integrates anything itself.
type Player struct {
	id          int
	series      *sim.TimeSeries
	frame       int
	paused      bool
	showForces  bool
	targetScale float64
	scale       float64
	scaleVel    float64
	spring      harmonica.Spring
	stopNotice  string
	canvas      *Canvas
}

func NewPlayer(ts *sim.TimeSeries, id int) Player {
	return Player{
		id:          id,
		series:      ts,
		showForces:  true,
		targetScale: DefaultForceScale,
		scale:       DefaultForceScale,
		spring:      harmonica.NewSpring(harmonica.FPS(FPS), 6.0, 1.0),
		canvas:      NewCanvas(canvasWidth, canvasHeight),
	}
}

func (p Player) Init() tea.Cmd { return tick(p.id) }

func (p Player) Frame() int              { return p.frame }
func (p Player) Paused() bool            { return p.paused }
func (p Player) ShowForces() bool        { return p.showForces }
func (p Player) ForceScale() float64     { return p.targetScale }
func (p Player) StopNotice() string      { return p.stopNotice }
func (p Player) Series() *sim.TimeSeries { return p.series }

func (p Player) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return p, tea.Quit
		case " ":
			p.paused = !p.paused
		case ".":
			if p.paused {
				p.advance()
			}
		case "r":
			p.frame = 0
			p.stopNotice = ""
		case "f":
			p.showForces = !p.showForces
		case "+", "=":
			p.targetScale *= ForceScaleStep
		case "-":
			p.targetScale /= ForceScaleStep
		}
	case tickMsg:
		if msg.id != p.id {
			return p, nil
		}
		if !p.paused {
			p.advance()
		}
		p.scale, p.scaleVel = p.spring.Update(p.scale, p.scaleVel, p.targetScale)
		return p, tick(p.id)
	}
	return p, nil
}

// advance moves one frame forward, holding at the last one.
func (p *Player) advance() {
	if p.frame < p.series.Len()-1 {
		p.frame++
	}
	if p.stopNotice == "" && p.reachedEnd() {
		p.stopNotice = stoppingMessage(p.series)
	}
}

func (p *Player) reachedEnd() bool {
	return p.frame >= p.series.Len()-1
}

func stoppingMessage(ts *sim.TimeSeries) string {
	if ts.Stopped {
		return fmt.Sprintf("swing came to a complete stop at t = %.2f s", ts.StoppingTime)
	}
	return fmt.Sprintf("no rest detected within %.2f s", ts.EndTime())
}

// pixelsPerMeter fits the full arc of the arm inside the canvas.
func pixelsPerMeter(length float64) float64 {
	cw, ch := canvasWidth*2, canvasHeight*4
	avail := math.Min(float64(ch-pivotY-4), float64(cw/2-4))
	return avail / length
}

func (p *Player) draw() {
	p.canvas.Clear()
	f, err := p.series.Frame(p.frame)
	if err != nil {
		return
	}

	cx := canvasWidth
	ppm := pixelsPerMeter(p.series.Params.Length)
	seat := dynamo.Vec2{X: float64(cx) + f.Position.X*ppm, Y: pivotY - f.Position.Y*ppm}
	sx, sy := roundPoint(seat)

	p.canvas.DrawLine(cx-6, pivotY, cx+6, pivotY)
	p.canvas.DrawLine(cx, pivotY, sx, sy)
	p.canvas.Disc(sx, sy, 2)

	if !p.showForces {
		return
	}
	forces, err := p.series.Forces(p.frame)
	if err != nil {
		return
	}
	for _, force := range []dynamo.Vec2{forces.Weight, forces.Tension, forces.Aero} {
		off, ok := ScaleArrow(force, p.scale, MinArrowLength)
		if !ok {
			continue
		}
		ex, ey := roundPoint(seat.Add(off))
		p.canvas.DrawArrow(sx, sy, ex, ey, arrowHead)
	}
}

func (p Player) View() string {
	p.draw()
	return lipgloss.JoinHorizontal(lipgloss.Top, canvasStyle.Render(p.canvas.String()), statsStyle.Render(p.stats()))
}

func (p Player) stats() string {
	f, err := p.series.Frame(p.frame)
	if err != nil {
		return errorStyle.Render("empty series")
	}

	var s strings.Builder
	status := runningStyle.Render("PLAYING")
	if p.paused {
		status = pausedStyle.Render("PAUSED")
	}
	s.WriteString(titleStyle.Render("SWING") + "  " + status + "\n\n")

	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.2f s", f.Time))
	row("Angle", fmt.Sprintf("%.1f°", config.RadToDeg(f.Angle)))
	row("Velocity", fmt.Sprintf("%.2f rad/s", f.Velocity))
	row("2s max vel", fmt.Sprintf("%.2f rad/s", p.series.MaxSpeedWindow(p.frame, speedWindow)))
	row("Energy", fmt.Sprintf("%.2f J", f.Energy))
	row("Force scale", fmt.Sprintf("%.3f", p.targetScale))

	if p.showForces {
		if forces, err := p.series.Forces(p.frame); err == nil {
			s.WriteString("\n")
			s.WriteString(weightStyle.Render(fmt.Sprintf("W=%.1fN ", forces.Weight.Y)))
			s.WriteString(tensionStyle.Render(fmt.Sprintf("T=%.1fN ", forces.Tension.Norm())))
			s.WriteString(aeroStyle.Render(fmt.Sprintf("Air=%.1fN", forces.Aero.Norm())))
			s.WriteString("\n")
		}
	}

	start := max(0, p.frame+1-energyHistory)
	if hist := p.series.Energies[start : p.frame+1]; len(hist) > 1 {
		chart := asciigraph.Plot(hist, asciigraph.Height(5), asciigraph.Width(36), asciigraph.Caption("energy (J)"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}

	params := p.series.Params
	s.WriteString(subtleStyle.Render(fmt.Sprintf("L=%.2fm m=%.1fkg drag=%.2f wind=%.1f", params.Length, params.Mass, params.DragCoeff, params.WindForce)) + "\n")

	if p.stopNotice != "" {
		s.WriteString("\n" + activeStyle.Render(p.stopNotice) + "\n")
	}

	s.WriteString(helpStyle.Render(keyHint("space", "pause") + keyHint(".", "step") + keyHint("f", "forces") + "\n" +
		keyHint("+/-", "force scale") + keyHint("r", "reset") + keyHint("q", "quit")))
	return s.String()
}
