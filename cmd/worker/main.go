// Command worker is the inference client: it connects to the broker's
// /wsl endpoint, runs Haar-cascade face detection with gocv on each
// frame_to_process message, and replies with processed_frame.
package main

import (
	"encoding/base64"
	"encoding/json"
	"flag"
	"image/color"
	"log"
	"time"

	"github.com/gorilla/websocket"
	"gocv.io/x/gocv"

	"github.com/n0remac/camrelay/wire"
)

type detection struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

func main() {
	brokerURL := flag.String("broker", "ws://127.0.0.1:5000/wsl", "broker websocket URL")
	cascadePath := flag.String("cascade", "haarcascade_frontalface_default.xml", "Haar cascade XML path")
	flag.Parse()

	classifier := gocv.NewCascadeClassifier()
	defer classifier.Close()
	if !classifier.Load(*cascadePath) {
		log.Fatalf("failed to load cascade file: %s", *cascadePath)
	}

	for {
		if err := run(*brokerURL, &classifier); err != nil {
			log.Printf("worker loop exited: %v; reconnecting", err)
		}
		time.Sleep(time.Second)
	}
}

func run(brokerURL string, classifier *gocv.CascadeClassifier) error {
	ws, _, err := websocket.DefaultDialer.Dial(brokerURL, nil)
	if err != nil {
		return err
	}
	defer ws.Close()

	hello, _ := wire.Encode(&wire.Envelope{Type: wire.KindHello})
	if err := ws.WriteMessage(websocket.TextMessage, hello); err != nil {
		return err
	}

	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			return err
		}
		env, err := wire.Decode(data)
		if err != nil {
			continue
		}
		switch env.Type {
		case wire.KindFrameToProcess:
			reply := processFrame(classifier, env)
			out, err := wire.Encode(reply)
			if err != nil {
				log.Printf("encode processed_frame: %v", err)
				continue
			}
			if err := ws.WriteMessage(websocket.TextMessage, out); err != nil {
				return err
			}
		case wire.KindConnected, wire.KindWelcome:
			// handshake acknowledgement, nothing to do
		}
	}
}

// processFrame decodes the base64 JPEG, runs the cascade, and packages
// the result as a processed_frame envelope (§4.6).
func processFrame(classifier *gocv.CascadeClassifier, env *wire.Envelope) *wire.Envelope {
	start := time.Now()

	reply := &wire.Envelope{
		Type:      wire.KindProcessedFrame,
		FrameID:   env.FrameID,
		Timestamp: env.Timestamp,
	}

	raw, err := base64.StdEncoding.DecodeString(env.Image)
	if err != nil || len(raw) == 0 {
		reply.Detections = json.RawMessage("[]")
		elapsed := time.Since(start).Seconds()
		reply.ProcessingTime = &elapsed
		return reply
	}

	img, err := gocv.IMDecode(raw, gocv.IMReadColor)
	if err != nil || img.Empty() {
		reply.Detections = json.RawMessage("[]")
		elapsed := time.Since(start).Seconds()
		reply.ProcessingTime = &elapsed
		return reply
	}
	defer img.Close()

	rects := classifier.DetectMultiScale(img)
	dets := make([]detection, 0, len(rects))
	for _, r := range rects {
		dets = append(dets, detection{X: r.Min.X, Y: r.Min.Y, Width: r.Dx(), Height: r.Dy()})
		gocv.Rectangle(&img, r, color.RGBA{G: 255, A: 0}, 2)
	}

	detJSON, err := json.Marshal(dets)
	if err != nil {
		detJSON = []byte("[]")
	}
	reply.Detections = detJSON

	elapsed := time.Since(start).Seconds()
	reply.ProcessingTime = &elapsed
	return reply
}
