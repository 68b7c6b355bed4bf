package follow

// PID is a single-axis proportional-integral-derivative loop. The zero
// value is unusable; construct with NewPID.
type PID struct {
	Kp       float64
	Ki       float64
	Kd       float64
	Setpoint float64
	integral float64
	prevErr  float64
}

func NewPID(kp, ki, kd float64) *PID {
	return &PID{Kp: kp, Ki: ki, Kd: kd}
}

// Compute advances the loop one tick of length dt and returns the control
// output for the current measured value. dt must be positive; the follower
// validates this once before stepping.
func (p *PID) Compute(value, dt float64) float64 {
	err := p.Setpoint - value
	p.integral += err * dt
	derivative := (err - p.prevErr) / dt
	p.prevErr = err
	return p.Kp*err + p.Ki*p.integral + p.Kd*derivative
}

// Reset clears integral and derivative memory. The setpoint is kept.
func (p *PID) Reset() {
	p.integral = 0
	p.prevErr = 0
}

// GetParams returns tunable parameters for live adjustment.
func (p *PID) GetParams() map[string]float64 {
	return map[string]float64{
		"Kp": p.Kp,
		"Ki": p.Ki,
		"Kd": p.Kd,
	}
}

// SetParam adjusts a gain by name.
func (p *PID) SetParam(name string, value float64) {
	switch name {
	case "Kp":
		p.Kp = value
	case "Ki":
		p.Ki = value
	case "Kd":
		p.Kd = value
	}
}
