package producer

import (
	"context"
	"log"
	"time"

	pb "github.com/n0remac/camrelay/servo"
	"github.com/stianeikeland/go-rpio/v4"
)

type Motorer interface {
	Forward(speed float64)
	Reverse(speed float64)
	Stop()
	Test(bool)
}

type NopMotor struct{}

func (NopMotor) Forward(float64) {}
func (NopMotor) Reverse(float64) {}
func (NopMotor) Stop()           {}
func (NopMotor) Test(bool)       {}

// SetupRobot opens the GPIO driver and wires up the four drive motors. If the
// rpio driver can't open (we're not running on the Pi), it falls back to
// no-op motors so the rest of the producer still runs for local testing.
func SetupRobot() []Motorer {
	if err := rpio.Open(); err != nil {
		log.Printf("rpio.Open failed (%v); falling back to no-op motors", err)
		return []Motorer{NopMotor{}, NopMotor{}, NopMotor{}, NopMotor{}}
	}

	m1 := NewMotor("MOTOR1", 1)
	m2 := NewMotor("MOTOR2", 1)
	m3 := NewMotor("MOTOR3", 1)
	m4 := NewMotor("MOTOR4", 1)

	return []Motorer{m1, m2, m3, m4}
}

// servo channel assignments on the PCA9685, mirrored from the servo actuator.
const (
	chanClaw      = 4
	chanClawTurn  = 5
	chanArmLift   = 6
	chanCameraPan = 14
	chanCameraTlt = 15
)

// ApplyServoParams drives the actuator towards the pan/tilt/roll state the
// broker forwarded in a control/move_servos message. Each axis is nudged in
// one direction for a fixed settle time rather than holding an absolute
// angle, matching the actuator's speed+direction RPC shape (it has no
// absolute-angle Move call).
func ApplyServoParams(ctx context.Context, servoClient pb.ControllerClient, pan, tilt, roll, prevPan, prevTilt, prevRoll int32) {
	const speed = 60
	const settle = 150 * time.Millisecond

	nudge := func(ch int32, delta int32) {
		if delta == 0 {
			return
		}
		dir := int32(1)
		if delta < 0 {
			dir = -1
		}
		rctx, cancel := context.WithTimeout(ctx, time.Second)
		defer cancel()
		if _, err := servoClient.Move(rctx, &pb.MoveRequest{Channel: ch, Direction: dir, Speed: speed}); err != nil {
			log.Printf("servo move channel=%d err=%v", ch, err)
			return
		}
		time.Sleep(settle)
		sctx, scancel := context.WithTimeout(ctx, time.Second)
		defer scancel()
		if _, err := servoClient.Stop(sctx, &pb.StopRequest{Channel: ch}); err != nil {
			log.Printf("servo stop channel=%d err=%v", ch, err)
		}
	}

	nudge(chanCameraPan, pan-prevPan)
	nudge(chanCameraTlt, tilt-prevTilt)
	nudge(chanArmLift, roll-prevRoll)
}

// Drive maps a coarse heading command onto the four drive motors. Used by a
// local operator console, not by the broker protocol itself.
func Drive(motors []Motorer, heading string, speed float64) {
	if len(motors) < 4 {
		return
	}
	m1, m2, m3, m4 := motors[0], motors[1], motors[2], motors[3]
	switch heading {
	case "forward":
		m1.Reverse(speed)
		m3.Forward(speed)
		m2.Reverse(speed)
		m4.Forward(speed)
	case "backward":
		m1.Forward(speed)
		m3.Reverse(speed)
		m2.Forward(speed)
		m4.Reverse(speed)
	case "left":
		m1.Forward(speed)
		m3.Reverse(speed)
		m2.Reverse(speed)
		m4.Forward(speed)
	case "right":
		m1.Reverse(speed)
		m3.Forward(speed)
		m2.Forward(speed)
		m4.Reverse(speed)
	case "stop":
		for _, m := range motors {
			m.Stop()
		}
	}
}
