package pulsecontrol

// WaveformData carries the sampled channel data of one waveform. Marker is a
// placeholder second channel, always zero-filled to the same length as WF.
type WaveformData struct {
	WF     []float64 `json:"wf"`
	Marker []float64 `json:"marker"`
	Clk    float64   `json:"clk"`
}

// WaveformStruct is the wire payload handed to the registration callback.
type WaveformStruct struct {
	Name string       `json:"name"`
	Data WaveformData `json:"data"`
}

// PulseGroup is the compiled artifact: hardware waveform ids and their repeat
// counts in execution order, with the fixed channel and control mode.
type PulseGroup struct {
	Pulses []int  `json:"pulses"`
	NRep   []int  `json:"nrep"`
	Name   string `json:"name"`
	Chan   int    `json:"chan"`
	Ctrl   string `json:"ctrl"`
}

// Fixed pulse-group fields: single channel, no external trigger.
const (
	GroupChannel = 1
	GroupControl = "notrig"
)
