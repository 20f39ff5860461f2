package main

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/cwbudde/algo-voices/voices"
)

// Two rows of a computer keyboard mapped onto one octave, piano style.
var keyOffsets = map[string]int{
	"a": 0, "w": 1, "s": 2, "e": 3, "d": 4, "f": 5, "t": 6,
	"g": 7, "y": 8, "h": 9, "u": 10, "j": 11, "k": 12, "o": 13, "l": 14,
}

const (
	minOctave = 0
	maxOctave = 8
	paramStep = 0.05
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	headerStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	heldStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	meterStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

type tickMsg struct{}

func tickCmd() tea.Cmd {
	return tea.Tick(33*time.Millisecond, func(time.Time) tea.Msg { return tickMsg{} })
}

// model is the UI. Terminals report no key releases, so a key toggles its
// note: the first press holds it, the second releases it.
type model struct {
	sender    *voices.Sender
	snapshots chan snapshot
	voices    int

	octave   int
	held     map[int]bool
	settings voices.Settings
	last     snapshot
	status   string
}

func newModel(sender *voices.Sender, snapshots chan snapshot, voiceCount int, settings voices.Settings) model {
	return model{
		sender:    sender,
		snapshots: snapshots,
		voices:    voiceCount,
		octave:    4,
		held:      map[int]bool{},
		settings:  settings,
	}
}

func (m model) Init() tea.Cmd {
	return tickCmd()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		select {
		case s := <-m.snapshots:
			m.last = s
		default:
		}
		return m, tickCmd()

	case tea.KeyMsg:
		return m.handleKey(msg.String())
	}
	return m, nil
}

// keyNote maps a keyboard key to a MIDI note in the given octave.
func keyNote(key string, octave int) (int, bool) {
	off, ok := keyOffsets[key]
	if !ok {
		return 0, false
	}
	note := (octave+1)*12 + off
	if note < 0 || note >= voices.NumNotes {
		return 0, false
	}
	return note, true
}

func (m model) handleKey(key string) (tea.Model, tea.Cmd) {
	if note, ok := keyNote(key, m.octave); ok {
		if m.held[note] {
			delete(m.held, note)
			m.sender.NoteOff(note)
		} else {
			m.held[note] = true
			m.sender.NoteOn(note, 0.8)
		}
		return m, nil
	}

	s := &m.settings
	switch key {
	case "ctrl+c", "q":
		m.sender.AllNotesOff()
		return m, tea.Quit
	case " ":
		m.held = map[int]bool{}
		m.sender.AllNotesOff()
		m.status = "all notes off"
	case "z":
		m.octave = max(m.octave-1, minOctave)
	case "x":
		m.octave = min(m.octave+1, maxOctave)
	case "tab":
		s.PlayMode = (s.PlayMode + 1) % voices.PlayMode(len(playModes))
		m.held = map[int]bool{}
		m.sender.SetPlayMode(s.PlayMode)
	case "1", "2", "3", "4":
		s.PlayMode = playModes[key[0]-'1']
		m.held = map[int]bool{}
		m.sender.SetPlayMode(s.PlayMode)
	case ",", ".":
		s.Sub = stepUnit(s.Sub, key == ".")
		m.sender.SetSub(s.Sub)
	case "[", "]":
		s.Detune = stepUnit(s.Detune, key == "]")
		m.sender.SetDetune(s.Detune)
	case "9", "0":
		s.Portamento = stepUnit(s.Portamento, key == "0")
		m.sender.SetPortamento(s.Portamento)
	case "-", "=":
		s.Rand = stepUnit(s.Rand, key == "=")
		m.sender.SetRand(s.Rand)
	case "left", "right":
		d := 1
		if key == "left" {
			d = -1
		}
		s.Interval = min(max(s.Interval+d, voices.MinInterval), voices.MaxInterval)
		m.sender.SetInterval(s.Interval)
	case "n":
		s.Legato = !s.Legato
		m.sender.SetLegato(s.Legato)
	case "m":
		s.Retrig = !s.Retrig
		m.sender.SetRetrig(s.Retrig)
	default:
		return m, nil
	}
	if key != " " {
		m.status = ""
	}
	return m, nil
}

var playModes = []voices.PlayMode{
	voices.PlayModePoly, voices.PlayModeMono, voices.PlayModeUnison, voices.PlayModeInterval,
}

func stepUnit(v float32, up bool) float32 {
	if up {
		v += paramStep
	} else {
		v -= paramStep
	}
	return min(max(v, 0), 1)
}

func (m model) View() string {
	var b strings.Builder
	st := m.last.Settings

	b.WriteString(titleStyle.Render("algo-voices monitor"))
	b.WriteString(dimStyle.Render(fmt.Sprintf("  %d voices, octave %d", m.voices, m.octave)))
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "mode %-8s sub %.2f  rand %.2f  detune %.2f  interval %+d  porta %.2f  legato %v  retrig %v\n",
		st.PlayMode, st.Sub, st.Rand, st.Detune, st.Interval, st.Portamento, st.Legato, st.Retrig)
	fmt.Fprintf(&b, "held keys %d  applied %d  dropped %d  ", m.last.Held, m.last.Stats.Applied, m.last.Stats.DroppedKeys)
	b.WriteString(meterStyle.Render(meter(m.last.Peak, 30)))
	b.WriteString("\n\n")

	b.WriteString(headerStyle.Render(fmt.Sprintf("%-5s %-5s %-5s %9s %9s %6s %5s", "slot", "note", "key", "freq", "target", "vol", "vel")))
	b.WriteString("\n")
	for _, v := range m.last.Voices {
		line := fmt.Sprintf("%-5d %-5s %-5s %9.2f %9.2f %6.2f %5.2f",
			v.Index, voices.NoteName(v.Note), voices.NoteName(v.Key), v.Frequency, v.Target, v.Volume, v.Velocity)
		if m.held[v.Key] {
			line = heldStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	for i := len(m.last.Voices); i < m.voices; i++ {
		b.WriteString(dimStyle.Render("-"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("a..l play  z/x octave  tab/1-4 mode  ,. sub  [] detune  -= rand  90 porta  ←→ interval  n legato  m retrig  space off  q quit"))
	if m.status != "" {
		b.WriteString("\n" + m.status)
	}
	return b.String()
}

// meter draws a peak bar of width cells, full scale at 1.0.
func meter(peak float32, width int) string {
	n := int(min(max(peak, 0), 1)*float32(width) + 0.5)
	return "[" + strings.Repeat("#", n) + strings.Repeat(" ", width-n) + "]"
}
