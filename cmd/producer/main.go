// Command producer is the camera-and-actuation client: it captures
// frames from a local camera with gocv, encodes them into the binary
// wire format, and relays them to the broker's /pi endpoint while
// applying servo_control forwards to the PCA9685 actuator over gRPC.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/gorilla/websocket"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"gocv.io/x/gocv"

	"github.com/n0remac/camrelay/producer"
	pb "github.com/n0remac/camrelay/servo"
	"github.com/n0remac/camrelay/wire"
)

func main() {
	brokerURL := flag.String("broker", "ws://127.0.0.1:5000/pi", "broker websocket URL")
	servoAddr := flag.String("servo", "127.0.0.1:50051", "servo actuator gRPC address")
	camera := flag.Int("camera", 0, "camera device index")
	fps := flag.Int("fps", 15, "capture rate")
	jpegQuality := flag.Int("quality", 80, "JPEG encode quality")
	flag.Parse()

	motors := producer.SetupRobot()
	for _, m := range motors {
		m.Stop()
	}

	conn, err := grpc.NewClient(*servoAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		log.Fatalf("servo dial failed: %v", err)
	}
	defer conn.Close()
	servoClient := pb.NewControllerClient(conn)

	webcam, err := gocv.OpenVideoCapture(*camera)
	if err != nil {
		log.Fatalf("open camera: %v", err)
	}
	defer webcam.Close()

	img := gocv.NewMat()
	defer img.Close()

	for {
		ws, _, err := websocket.DefaultDialer.Dial(*brokerURL, nil)
		if err != nil {
			log.Printf("dial broker failed: %v; retrying in 1s", err)
			time.Sleep(time.Second)
			continue
		}
		if err := run(ws, webcam, &img, servoClient, *fps, *jpegQuality); err != nil {
			log.Printf("producer loop exited: %v; reconnecting", err)
		}
		ws.Close()
		time.Sleep(time.Second)
	}
}

func run(ws *websocket.Conn, webcam *gocv.VideoCapture, img *gocv.Mat, servoClient pb.ControllerClient, fps, quality int) error {
	done := make(chan struct{})
	go readLoop(ws, servoClient, done)

	interval := time.Second / time.Duration(fps)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var frameID uint32
	for {
		select {
		case <-done:
			return nil
		case <-ticker.C:
			if ok := webcam.Read(img); !ok || img.Empty() {
				continue
			}
			buf, err := gocv.IMEncodeWithParams(".jpg", *img, []int{gocv.IMWriteJpegQuality, quality})
			if err != nil {
				log.Printf("jpeg encode failed: %v", err)
				continue
			}
			frameID++
			bf := &wire.BinaryFrame{
				FrameID:   frameID,
				Timestamp: float32(wire.NowSeconds()),
				HasColor:  true,
				Color:     buf.GetBytes(),
			}
			buf.Close()
			if err := ws.WriteMessage(websocket.BinaryMessage, wire.EncodeBinaryFrame(bf)); err != nil {
				return err
			}
		}
	}
}

// readLoop drains the broker's JSON messages: connected/welcome
// handshake replies and control/move_servos forwards (§4.1, §4.5). It
// tracks the last-applied ServoState so ApplyServoParams only nudges
// the axes that moved.
func readLoop(ws *websocket.Conn, servoClient pb.ControllerClient, done chan<- struct{}) {
	defer close(done)

	prevPan, prevTilt, prevRoll := int32(90), int32(90), int32(0)
	hello, _ := wire.Encode(&wire.Envelope{Type: wire.KindHello})
	_ = ws.WriteMessage(websocket.TextMessage, hello)

	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			return
		}
		env, err := wire.Decode(data)
		if err != nil {
			continue
		}
		if env.Type != wire.KindControl || env.Action != "move_servos" {
			continue
		}
		pan := int32(env.Params["pan"])
		tilt := int32(env.Params["tilt"])
		roll := int32(env.Params["roll"])

		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		producer.ApplyServoParams(ctx, servoClient, pan, tilt, roll, prevPan, prevTilt, prevRoll)
		cancel()

		prevPan, prevTilt, prevRoll = pan, tilt, roll
	}
}
