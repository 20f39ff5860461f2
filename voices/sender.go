package voices

import (
	"github.com/sirupsen/logrus"
)

// Sender is the producer-side handle of the action channel. It clamps every
// value to its valid range before enqueueing, so the render context only
// ever sees validated input. A Sender may be shared between goroutines.
type Sender struct {
	queue *Queue
}

// NewSender wraps q.
func NewSender(q *Queue) *Sender {
	return &Sender{queue: q}
}

// Send validates a and enqueues it. Actions that cannot be repaired (unknown
// tags, notes outside 0..127, unknown play modes) are dropped and reported
// as false.
func (s *Sender) Send(a Action) bool {
	out, changed, ok := clampAction(a)
	if !ok {
		logrus.WithFields(logrus.Fields{
			"function": "Sender.Send",
			"action":   a.String(),
		}).Warn("Dropping invalid action")
		return false
	}
	if changed && !out.Tag.IsNote() {
		logrus.WithFields(logrus.Fields{
			"function": "Sender.Send",
			"tag":      a.Tag.String(),
			"value":    a.Value,
			"clamped":  out.Value,
		}).Debug("Clamped setting value")
	}
	if out.Tag == ActionPlayMode {
		logrus.WithFields(logrus.Fields{
			"function":  "Sender.Send",
			"play_mode": out.Mode().String(),
		}).Info("Play mode change requested")
	}
	s.queue.Push(out)
	return true
}

// SendAll sends every action in order and reports how many were accepted.
func (s *Sender) SendAll(actions []Action) int {
	n := 0
	for _, a := range actions {
		if s.Send(a) {
			n++
		}
	}
	return n
}

func (s *Sender) NoteOn(note int, velocity float32) bool {
	return s.Send(NoteOnAction(note, velocity))
}

func (s *Sender) NoteOff(note int) bool { return s.Send(NoteOffAction(note)) }

func (s *Sender) AllNotesOff() bool { return s.Send(AllNotesOffAction()) }

func (s *Sender) SetPlayMode(m PlayMode) bool { return s.Send(PlayModeAction(m)) }

func (s *Sender) SetSub(v float32) bool        { return s.Send(SubAction(v)) }
func (s *Sender) SetRand(v float32) bool       { return s.Send(RandAction(v)) }
func (s *Sender) SetDetune(v float32) bool     { return s.Send(DetuneAction(v)) }
func (s *Sender) SetInterval(v int) bool       { return s.Send(IntervalAction(v)) }
func (s *Sender) SetPortamento(v float32) bool { return s.Send(PortamentoAction(v)) }
func (s *Sender) SetLegato(on bool) bool       { return s.Send(LegatoAction(on)) }
func (s *Sender) SetRetrig(on bool) bool       { return s.Send(RetrigAction(on)) }

func (s *Sender) SetAttack(v float32) bool  { return s.Send(AttackAction(v)) }
func (s *Sender) SetDecay(v float32) bool   { return s.Send(DecayAction(v)) }
func (s *Sender) SetSustain(v float32) bool { return s.Send(SustainAction(v)) }
func (s *Sender) SetRelease(v float32) bool { return s.Send(ReleaseAction(v)) }

// SetSettings sends every field of st.
func (s *Sender) SetSettings(st Settings) int {
	return s.SendAll(st.Actions())
}
