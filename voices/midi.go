package voices

import (
	"math"
	"strconv"

	"github.com/cwbudde/algo-approx"
	"gitlab.com/gomidi/midi/v2"
)

// NumNotes is the size of the MIDI note range.
const NumNotes = 128

// Tuning is the reference frequency of A4 (note 69).
const Tuning = 440.0

var (
	freqTable [NumNotes]float32
	noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}
)

func init() {
	for i := range freqTable {
		freqTable[i] = float32(Tuning * math.Pow(2, float64(i-69)/12.0))
	}
}

// NoteFreq returns the equal-tempered frequency of a MIDI note in Hz. Notes
// outside 0..127 are extrapolated.
func NoteFreq(note int) float32 {
	if note >= 0 && note < NumNotes {
		return freqTable[note]
	}
	return float32(Tuning * math.Pow(2, float64(note-69)/12.0))
}

// NoteName returns the note name with octave, C-2 for note 0.
func NoteName(note int) string {
	if note < 0 || note >= NumNotes {
		return "---"
	}
	return noteNames[note%12] + strconv.Itoa(note/12-2)
}

// ratioFromSemitones converts a (fractional) semitone offset into a
// frequency ratio.
func ratioFromSemitones(semitones float32) float32 {
	const ln2Over12 = 0.69314718055994530942 / 12.0
	if semitones == 0 {
		return 1
	}
	return approx.FastExp(semitones * ln2Over12)
}

// EventFromMessage decodes a note-on or note-off MIDI message into an
// action. Note-on with velocity zero is a note-off. Any other message is
// reported as false.
func EventFromMessage(msg midi.Message) (Action, bool) {
	var ch, key, vel uint8
	if msg.GetNoteStart(&ch, &key, &vel) {
		return NoteOnAction(int(key), float32(vel)/127.0), true
	}
	if msg.GetNoteEnd(&ch, &key) {
		return NoteOffAction(int(key)), true
	}
	return Action{}, false
}
