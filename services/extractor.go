package services

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"abena-car-sales/models"
)

// Directive is a recognized JSON object embedded in a model reply
type Directive interface {
	directive()
}

// ImageDirective asks the UI to show a car's photo
type ImageDirective struct {
	CarID string
}

// BookingDirective proposes an inspection booking for a car
type BookingDirective struct {
	CarID string
}

// TrackingDirective carries lead-qualification metadata
type TrackingDirective struct {
	Intent           string
	LeadTemperature  string
	RecommendedCarID string
}

// Unrecognized is an object with none of the known shapes
type Unrecognized struct{}

func (ImageDirective) directive()    {}
func (BookingDirective) directive()  {}
func (TrackingDirective) directive() {}
func (Unrecognized) directive()      {}

var (
	fencedJSON = regexp.MustCompile("```(?:json)?\\s*(\\{[\\s\\S]*?\\})\\s*```")
	// Non-greedy and not brace-balanced: nested objects, or a "}" inside a
	// string value, end the match early and fail to parse.
	bareJSON = regexp.MustCompile(`\{[\s\S]*?\}`)
)

// recognizedKeys gate the bare-brace pass
var recognizedKeys = []string{"intent", "action", "lead_temperature", "recommended_car_id"}

// Classify maps a parsed object to the directives it carries. One object can
// carry several (e.g. tracking metadata with a recommended car also shows its
// image).
func Classify(obj map[string]any) []Directive {
	var out []Directive

	action := stringValue(obj["action"])
	if action == "send_car_images" || action == "send_car_image" || truthy(obj["recommended_car_id"]) {
		carID := stringValue(obj["car_id"])
		if !truthy(obj["car_id"]) {
			carID = stringValue(obj["recommended_car_id"])
		}
		if carID != "" {
			out = append(out, ImageDirective{CarID: carID})
		}
	}

	if action == "propose_booking" && truthy(obj["car_id"]) {
		out = append(out, BookingDirective{CarID: stringValue(obj["car_id"])})
	}

	if truthy(obj["intent"]) || truthy(obj["lead_temperature"]) {
		t := TrackingDirective{Intent: "unknown", LeadTemperature: "unknown"}
		if truthy(obj["intent"]) {
			t.Intent = stringValue(obj["intent"])
		}
		if truthy(obj["lead_temperature"]) {
			t.LeadTemperature = stringValue(obj["lead_temperature"])
		}
		if truthy(obj["recommended_car_id"]) {
			t.RecommendedCarID = stringValue(obj["recommended_car_id"])
		}
		out = append(out, t)
	}

	if len(out) == 0 {
		return []Directive{Unrecognized{}}
	}
	return out
}

// TrackingRecorder receives tracking metadata found in replies
type TrackingRecorder interface {
	RecordTrackingLog(entry models.TrackingEntry) models.TrackingLog
}

// Extraction is the result of stripping directives from a reply
type Extraction struct {
	Text            string
	Images          []string
	BookingProposal *models.BookingProposal
}

// Extractor pulls directives out of model replies
type Extractor struct {
	inventory *Inventory
	recorder  TrackingRecorder
}

// NewExtractor returns an extractor resolving cars against inv and
// forwarding tracking metadata to rec (which may be nil).
func NewExtractor(inv *Inventory, rec TrackingRecorder) *Extractor {
	return &Extractor{inventory: inv, recorder: rec}
}

// Extract removes recognized JSON directives from text. Fenced blocks are
// handled first, then bare objects in what remains. Anything that fails to
// parse stays in the text.
func (e *Extractor) Extract(text string) Extraction {
	run := &extraction{extractor: e, original: text}

	cleaned := run.stripFenced(text)
	cleaned = run.stripBare(cleaned)

	return Extraction{
		Text:            strings.TrimSpace(cleaned),
		Images:          run.images,
		BookingProposal: run.proposal,
	}
}

type extraction struct {
	extractor *Extractor
	original  string
	images    []string
	proposal  *models.BookingProposal
}

func (r *extraction) stripFenced(text string) string {
	var b strings.Builder
	last := 0
	for _, m := range fencedJSON.FindAllStringSubmatchIndex(text, -1) {
		obj, ok := parseObject(text[m[2]:m[3]])
		if !ok {
			continue
		}
		r.apply(Classify(obj))
		b.WriteString(text[last:m[0]])
		last = m[1]
	}
	b.WriteString(text[last:])
	return b.String()
}

func (r *extraction) stripBare(text string) string {
	cleaned := text
	for _, candidate := range bareJSON.FindAllString(text, -1) {
		obj, ok := parseObject(candidate)
		if !ok || !hasRecognizedKey(obj) {
			continue
		}
		r.apply(Classify(obj))
		cleaned = strings.Replace(cleaned, candidate, "", 1)
	}
	return cleaned
}

func (r *extraction) apply(directives []Directive) {
	inv := r.extractor.inventory
	for _, d := range directives {
		switch d := d.(type) {
		case ImageDirective:
			car, ok := inv.Find(d.CarID)
			if ok && !contains(r.images, car.ImageURL) {
				r.images = append(r.images, car.ImageURL)
			}
		case BookingDirective:
			if car, ok := inv.Find(d.CarID); ok {
				r.proposal = &models.BookingProposal{CarID: car.ID, CarName: car.Name()}
			}
		case TrackingDirective:
			if r.extractor.recorder != nil {
				r.extractor.recorder.RecordTrackingLog(models.TrackingEntry{
					Intent:           d.Intent,
					LeadTemperature:  d.LeadTemperature,
					RecommendedCarID: d.RecommendedCarID,
					MessageText:      r.original,
				})
			}
		case Unrecognized:
		}
	}
}

func parseObject(s string) (map[string]any, bool) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(s), &obj); err != nil || obj == nil {
		return nil, false
	}
	return obj, true
}

func hasRecognizedKey(obj map[string]any) bool {
	for _, k := range recognizedKeys {
		if truthy(obj[k]) {
			return true
		}
	}
	return false
}

// truthy follows JSON-ish truthiness: null, false, 0 and "" are false
func truthy(v any) bool {
	switch v := v.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != ""
	case float64:
		return v != 0
	default:
		return true
	}
}

func stringValue(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
