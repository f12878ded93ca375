// Command judge runs one judgment from the command line: detector output as
// a JSON file plus a weight delta, result printed as the API would return
// it. Useful for replaying captured transactions.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/smartkiosk/shelfjudge/internal/api"
	"github.com/smartkiosk/shelfjudge/internal/catalog"
	"github.com/smartkiosk/shelfjudge/internal/judge"
	"github.com/smartkiosk/shelfjudge/internal/models"
	"github.com/smartkiosk/shelfjudge/internal/vision"
)

func main() {
	var (
		detectionsFile = flag.String("detections", "", "JSON file with top-camera detections")
		sideFile       = flag.String("side", "", "JSON file with side-camera detections (optional)")
		deltaWeight    = flag.Float64("delta", 0, "Weight delta in grams (negative = removed)")
		catalogFile    = flag.String("catalog", "", "Catalog YAML file (built-in assortment when empty)")
		noHandFilter   = flag.Bool("no-hand-filter", false, "Skip the hand proximity filter")
	)
	flag.Parse()

	if *detectionsFile == "" {
		flag.Usage()
		os.Exit(2)
	}

	var snapshot *catalog.Memory
	if *catalogFile != "" {
		loaded, err := catalog.LoadYAML(*catalogFile)
		if err != nil {
			log.Fatal("Failed to load catalog:", err)
		}
		snapshot = loaded
	} else {
		snapshot = catalog.NewDefault()
	}

	detections, err := readDetections(*detectionsFile)
	if err != nil {
		log.Fatal("Failed to read detections:", err)
	}

	extractor := vision.NewExtractor(vision.ExtractorConfig{})
	engine := judge.NewEngine(snapshot, judge.Config{})

	var candidates []models.EnsembleResult
	switch {
	case *sideFile != "":
		side, err := readDetections(*sideFile)
		if err != nil {
			log.Fatal("Failed to read side detections:", err)
		}
		candidates = extractor.ProcessDualCamera(detections, side)
	case *noHandFilter:
		for _, d := range detections {
			if d.IsHand() {
				continue
			}
			candidates = append(candidates, models.EnsembleResult{
				ClassID:            d.ClassID,
				ClassName:          d.ClassName,
				TopConfidence:      d.Confidence,
				CombinedConfidence: d.Confidence,
				VoteCount:          1,
			})
		}
	default:
		candidates = extractor.ProcessSingleCamera(detections)
	}

	result := engine.Judge(candidates, *deltaWeight)

	out, err := json.MarshalIndent(api.NewJudgeResponse(result), "", "  ")
	if err != nil {
		log.Fatal("Failed to marshal result:", err)
	}
	fmt.Println(string(out))
}

func readDetections(path string) ([]models.Detection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var inputs []api.DetectionInput
	if err := json.Unmarshal(data, &inputs); err != nil {
		return nil, err
	}

	detections := make([]models.Detection, 0, len(inputs))
	for _, input := range inputs {
		detections = append(detections, input.ToDetection())
	}
	return detections, nil
}
