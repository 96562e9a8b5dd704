// Package backend provides concrete registration callbacks for the
// pulse-group compiler: an in-memory backend that retains registered waveform
// structs (the CLI's default sink and the natural test double), and a
// socket.io backend that registers waveforms against a remote
// hardware-control gateway.
package backend
