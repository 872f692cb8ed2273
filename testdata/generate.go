// Command generate writes events.parquet, a small file with one column of
// every type pqline renders. Run it from this directory:
//
//	go run generate.go
package main

import (
	"log"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"
)

type Event struct {
	ID       int64     `parquet:"id"`
	User     string    `parquet:"user"`
	Email    *string   `parquet:"email,optional"`
	Attempts int32     `parquet:"attempts"`
	Success  bool      `parquet:"success"`
	Latency  float64   `parquet:"latency"`
	Ratio    float32   `parquet:"ratio"`
	At       time.Time `parquet:"at"`
	Day      int32     `parquet:"day,date"`
	Payload  string    `parquet:"payload,json"`
}

func main() {
	email := func(s string) *string { return &s }
	base := time.Date(2024, 5, 17, 9, 30, 0, 0, time.UTC)

	events := []Event{
		{ID: 1, User: "alice", Email: email("alice@example.com"), Attempts: 1, Success: true, Latency: 12.5, Ratio: 0.1, At: base, Day: 19860, Payload: `{"path":"/login","status":200}`},
		{ID: 2, User: "bob", Attempts: 3, Success: false, Latency: 830.25, Ratio: 0.75, At: base.Add(1500 * time.Millisecond), Day: 19860, Payload: `{"path":"/login","status":401}`},
		{ID: 3, User: "charlie", Email: email("charlie@example.com"), Attempts: 1, Success: true, Latency: 7, Ratio: 1, At: base.Add(time.Hour + 123456789), Day: 19861, Payload: `{"path":"/home","tags":["a","b"]}`},
		{ID: 4, User: "diana", Attempts: 2, Success: true, Latency: 0.001, Ratio: 0.333, At: base.Add(26 * time.Hour), Day: 19861, Payload: `{}`},
	}

	file, err := os.Create("events.parquet")
	if err != nil {
		log.Fatal(err)
	}
	defer file.Close()

	writer := parquet.NewGenericWriter[Event](file)
	if _, err := writer.Write(events); err != nil {
		log.Fatal(err)
	}
	if err := writer.Close(); err != nil {
		log.Fatal(err)
	}

	log.Printf("Generated events.parquet with %d events", len(events))
}
