// Package processor wires the command line flags to the rest of the
// program. It builds the text-to-speech provider chain, the audio device and
// the speaker, then runs the GUI, reads a word list aloud headlessly or says a
// single word.
package processor
