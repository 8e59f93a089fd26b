package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"callscout/catalog"
	"callscout/config"
	"callscout/core"
	"callscout/insight"
	"callscout/playback"
	"callscout/server"
	"callscout/session"
	"callscout/transcript"
	"callscout/viewport"
)

func main() {
	if err := godotenv.Load(); err == nil {
		log.Printf("Loaded environment from .env")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if !cfg.HasValidAPI() {
		log.Println("Warning: no API configuration found, insight generation runs in mock mode")
	}

	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "session":
			if len(os.Args) < 3 {
				log.Fatalf("usage: callscout session <call-id|transcript-file>")
			}
			runSessionReplay(os.Args[2])
			return
		default:
			log.Printf("unknown argument: %s", os.Args[1])
			log.Println("usage:")
			log.Println("  callscout                 start the insight API server")
			log.Println("  callscout session <call>  replay a call transcript in-process")
			return
		}
	}

	provider := insight.PickProvider()
	srv := server.New(provider, cfg.InsightModel)
	mux := http.NewServeMux()
	srv.Routes(mux)

	log.Printf("Server listening on %s", cfg.Addr)
	log.Fatal(http.ListenAndServe(cfg.Addr, mux))
}

// runSessionReplay drives a full playback session against a catalog entry or
// a transcript file saved on disk, with a simulated playback clock.
func runSessionReplay(target string) {
	source, label := resolveSource(target)
	sess := session.New(source, insight.PickProvider())

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	if err := sess.LoadTranscript(ctx); err != nil {
		log.Fatalf("session %s: %v", label, err)
	}

	segments := sess.Segments()
	if len(segments) == 0 {
		log.Fatalf("session %s: transcript contains no segments", label)
	}
	duration := 0.0
	for _, seg := range segments {
		for _, w := range seg.Words {
			if w.EndTime > duration {
				duration = w.EndTime
			}
		}
	}

	rate := 60.0
	if v := core.GetEnvOrDefault("REPLAY_RATE", ""); v != "" {
		if _, err := fmt.Sscanf(v, "%f", &rate); err != nil {
			log.Printf("Warning: invalid REPLAY_RATE %q, using %.0fx", v, rate)
		}
	}

	follow := viewport.NewController()
	printed := make(map[string]bool)

	sim := playback.NewSimulator(rate, 200*time.Millisecond, playback.Events{
		OnReady: func(duration float64) {
			log.Printf("[%s] ready, %s of audio, replaying at %.0fx", label, core.FormatTime(duration), rate)
		},
		OnTimeUpdate: func(t float64) {
			view := sess.UpdateTime(t)
			for _, sv := range view.Segments {
				if !sv.Visible || printed[sv.Segment.ID] {
					continue
				}
				printed[sv.Segment.ID] = true
				fmt.Printf("[%s] %s\n", sv.Segment.Timestamp, sv.Segment.Text())
				follow.OnContentChange(0, time.Now())
			}
		},
	})
	sim.Run(context.Background(), duration)

	// Let in-flight oracle calls land before summarizing.
	sess.Wait()

	status := sess.Status()
	fmt.Printf("\n=== Session summary ===\n")
	fmt.Printf("segments: %d, dispatched: %d, insights: %d\n", status.SegmentCount, status.ProcessedCount, status.InsightCount)
	for _, seg := range sess.Segments() {
		if seg.Insight != nil {
			fmt.Printf("[%s] insight: %s\n", seg.Timestamp, seg.Insight.Text)
		}
	}
}

func resolveSource(target string) (transcript.Source, string) {
	if call, ok := catalog.GetCallByID(target); ok {
		if call.TranscriptURL == "" {
			log.Fatalf("call %s has no transcript yet (%s)", call.ID, call.Status)
		}
		return transcript.NewHTTPSource(call.TranscriptURL), call.ID
	}
	if _, err := os.Stat(target); err == nil {
		return transcript.FileSource{Path: target}, target
	}
	log.Fatalf("unknown call id or transcript file: %s", target)
	return nil, ""
}
