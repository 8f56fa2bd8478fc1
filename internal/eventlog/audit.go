package eventlog

import "gpiohal/gpio"

// Audited wraps a gpio.GPIO and records every primitive, with its outcome,
// in a Logger.  Results and errors pass through untouched.
type Audited struct {
	g     gpio.GPIO
	log   *Logger
	actor string
}

var _ gpio.GPIO = (*Audited)(nil)

// Audit returns g with every operation logged on behalf of actor.
func Audit(g gpio.GPIO, log *Logger, actor string) *Audited {
	return &Audited{g: g, log: log, actor: actor}
}

func (a *Audited) Setup(pin gpio.Pin, dir gpio.Direction) error {
	err := a.g.Setup(pin, dir)
	a.record(err, "setup %s %s", pin, dir)
	return err
}

func (a *Audited) Output(pin gpio.Pin, v gpio.Level) error {
	err := a.g.Output(pin, v)
	a.record(err, "output %s %s", pin, v)
	return err
}

func (a *Audited) Input(pin gpio.Pin) (gpio.Level, error) {
	v, err := a.g.Input(pin)
	if err != nil {
		a.record(err, "input %s", pin)
	} else {
		a.record(nil, "input %s = %s", pin, v)
	}
	return v, err
}

func (a *Audited) record(err error, format string, args ...any) {
	args = append([]any{a.actor}, args...)
	if err != nil {
		a.log.Log("%s: "+format+": %v", append(args, err)...)
		return
	}
	a.log.Log("%s: "+format, args...)
}
