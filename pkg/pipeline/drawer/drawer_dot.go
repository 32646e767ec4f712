package drawer

import (
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"text/template"
	"time"

	"github.com/dominikbraun/graph"
	"github.com/pkg/errors"
	"gopkg.in/go-playground/colors.v1"

	"github.com/askiada/go-codec/internal/store"
	"github.com/askiada/go-codec/pkg/pipeline/measure"
)

// DOTDrawer is a drawer that writes the pipeline graph as a Graphviz DOT file.
type DOTDrawer struct {
	graph    graph.Graph[string, string]
	store    store.Store[string, string]
	fileName string
}

// NewDOTDrawer creates a new DOT drawer.
func NewDOTDrawer(fileName string) *DOTDrawer {
	s := store.NewMemoryStore[string, string]()

	return &DOTDrawer{
		fileName: fileName,
		store:    s,
		graph:    graph.NewWithStore(graph.StringHash, s, graph.Directed()),
	}
}

// AddStage adds a stage to the pipeline graph.
func (d *DOTDrawer) AddStage(id, label string) error {
	err := d.graph.AddVertex(id, graph.VertexAttribute("label", label))
	if err != nil {
		return errors.Wrapf(err, "unable to add vertex %s", id)
	}

	return nil
}

// AddLink adds a link between parent and child stages.
func (d *DOTDrawer) AddLink(parentID, childID, label string) error {
	var options []func(*graph.EdgeProperties)
	if label != "" {
		options = append(options, graph.EdgeAttribute("label", label), graph.EdgeAttribute("style", "dashed"))
	}

	err := d.graph.AddEdge(parentID, childID, options...)
	if err != nil {
		return errors.Wrapf(err, "unable to add edge from %s to %s", parentID, childID)
	}

	return nil
}

// Draw creates the DOT file.
func (d *DOTDrawer) Draw() error {
	file, err := os.Create(d.fileName)
	if err != nil {
		return errors.Wrapf(err, "unable to create file %s", d.fileName)
	}

	err = d.Render(file)
	if err != nil {
		file.Close()

		return errors.Wrapf(err, "unable to create dot file %s", d.fileName)
	}

	return errors.Wrapf(file.Close(), "unable to close dot file %s", d.fileName)
}

// Render writes the graph in the DOT language.
// Stages are laid out left to right.
func (d *DOTDrawer) Render(w io.Writer) error {
	return dot(d.graph, w, graphAttribute("rankdir", "LR"))
}

// SetTotalTime sets the total time for the stage.
func (d *DOTDrawer) SetTotalTime(id string, startTime time.Time) error {
	err := d.store.UpdateVertex(id, vertexAttribute("xlabel", measure.Round(time.Since(startTime)).String()))
	if err != nil {
		return errors.Wrapf(err, "unable to update %s vertex", id)
	}

	return nil
}

func vertexAttribute(key, value string) func(*graph.VertexProperties) {
	return func(p *graph.VertexProperties) {
		p.Attributes[key] = value
	}
}

const maxRGB = 240

// AddMeasure labels every stage with its elapsed time and every edge with the
// bytes that went through it, coloured from blue (fewest) to red (most).
func (d *DOTDrawer) AddMeasure(msr measure.Measure) error {
	metrics := msr.AllMetrics()
	if len(metrics) == 0 {
		return nil
	}

	minWritten, maxWritten := int64(-1), int64(0)

	for id, mt := range metrics {
		err := d.store.UpdateVertex(id, vertexAttribute("xlabel", measure.Round(mt.Elapsed()).String()))
		if err != nil {
			return errors.Wrapf(err, "unable to update %s vertex", id)
		}

		written := mt.Written()
		maxWritten = max(maxWritten, written)

		if minWritten < 0 || written < minWritten {
			minWritten = written
		}
	}

	edges, err := d.graph.Edges()
	if err != nil {
		return errors.Wrap(err, "unable to list edges")
	}

	for _, edge := range edges {
		mt, ok := metrics[edge.Source]
		if !ok {
			continue
		}

		colour, err := heatColour(mt.Written(), minWritten, maxWritten)
		if err != nil {
			return err
		}

		label := fmt.Sprintf("%d B", mt.Written())
		if option := edge.Properties.Attributes["label"]; option != "" {
			label = option + " " + label
		}

		err = d.graph.UpdateEdge(edge.Source, edge.Target,
			graph.EdgeAttribute("label", label),
			graph.EdgeAttribute("fontcolor", "blue"),
			graph.EdgeAttribute("color", colour),
		)
		if err != nil {
			return errors.Wrap(err, "unable to update edge")
		}
	}

	return nil
}

// MarkSlowest walks the path from sourceID to targetID, which skips the stages
// of sub-pipelines, and outlines the stage that ran the longest.
func (d *DOTDrawer) MarkSlowest(sourceID, targetID string, msr measure.Measure) error {
	path, err := graph.ShortestPath(d.graph, sourceID, targetID)
	if errors.Is(err, graph.ErrTargetNotReachable) {
		return nil
	}

	if err != nil {
		return errors.Wrapf(err, "unable to find path from %s to %s", sourceID, targetID)
	}

	metrics := msr.AllMetrics()

	var (
		slowest string
		elapsed time.Duration
	)

	for _, id := range path {
		mt, ok := metrics[id]
		if !ok || (slowest != "" && mt.Elapsed() <= elapsed) {
			continue
		}

		slowest, elapsed = id, mt.Elapsed()
	}

	if slowest == "" {
		return nil
	}

	err = d.store.UpdateVertex(slowest, vertexAttribute("color", "red"), vertexAttribute("penwidth", "3"))
	if err != nil {
		return errors.Wrapf(err, "unable to update %s vertex", slowest)
	}

	return nil
}

func heatColour(value, minValue, maxValue int64) (string, error) {
	fraction := 1.0
	if maxValue > minValue {
		fraction = float64(value-minValue) / float64(maxValue-minValue)
	}

	red := maxRGB * fraction
	blue := maxRGB - red

	colour, err := colors.RGB(uint8(red), 0, uint8(blue))
	if err != nil {
		return "", errors.Wrap(err, "unable to get colour")
	}

	return colour.ToHEX().String(), nil
}

//nolint:lll //this is a template
const dotTemplate = `strict {{.GraphType}} {
	{{range $k, $v := .Attributes}}
		{{$k}}="{{$v}}";
	{{end}}
	{{range $s := .Statements}}
		"{{.Source}}" {{if .Target}}{{$.EdgeOperator}} "{{.Target}}" [ {{range $k, $v := .EdgeAttributes}}{{$k}}="{{$v}}", {{end}} weight={{.EdgeWeight}} ]{{else}}[ {{range $k, $v := .HTMLAttributes}}{{$k}}={{$v}}, {{end}} {{range $k, $v := .SourceAttributes}}{{$k}}="{{$v}}", {{end}} weight={{.SourceWeight}} ]{{end}};
	{{end}}
	}
	`

type description struct {
	GraphType    string
	Attributes   map[string]string
	EdgeOperator string
	Statements   []statement
}

type statement struct {
	Source           string
	Target           string
	SourceAttributes map[string]string
	HTMLAttributes   map[string]string
	EdgeAttributes   map[string]string
	SourceWeight     int
	EdgeWeight       int
}

func dot(g graph.Graph[string, string], wrt io.Writer, options ...func(*description)) error {
	desc, err := generateDOT(g, options...)
	if err != nil {
		return fmt.Errorf("failed to generate DOT description: %w", err)
	}

	return renderDOT(wrt, desc)
}

// graphAttribute sets a graph-wide DOT attribute.
func graphAttribute(key, value string) func(*description) {
	return func(d *description) {
		d.Attributes[key] = value
	}
}

// generateDOT lists vertices and their edges in sorted order so the output is stable.
func generateDOT(gra graph.Graph[string, string], options ...func(*description)) (description, error) {
	desc := description{
		GraphType:    "graph",
		Attributes:   make(map[string]string),
		EdgeOperator: "--",
		Statements:   make([]statement, 0),
	}

	for _, option := range options {
		option(&desc)
	}

	if gra.Traits().IsDirected {
		desc.GraphType = "digraph"
		desc.EdgeOperator = "->"
	}

	adjacencyMap, err := gra.AdjacencyMap()
	if err != nil {
		return desc, errors.Wrap(err, "unable to get adjacency map")
	}

	for _, vertex := range slices.Sorted(maps.Keys(adjacencyMap)) {
		_, sourceProperties, err := gra.VertexWithProperties(vertex)
		if err != nil {
			return desc, errors.Wrap(err, "unable to get vertex properties")
		}

		attributes := maps.Clone(sourceProperties.Attributes)
		htmlAttributes := make(map[string]string)

		if xlabel, ok := attributes["xlabel"]; ok {
			label := vertex
			if l, ok := attributes["label"]; ok {
				label = l
			}

			htmlAttributes["label"] = fmt.Sprintf(`<%s <BR /> <FONT POINT-SIZE="12">%s</FONT>>`, label, xlabel)

			delete(attributes, "xlabel")
			delete(attributes, "label")
		}

		desc.Statements = append(desc.Statements, statement{
			Source:           vertex,
			SourceWeight:     sourceProperties.Weight,
			SourceAttributes: attributes,
			HTMLAttributes:   htmlAttributes,
		})

		adjacencies := adjacencyMap[vertex]
		for _, adjacency := range slices.Sorted(maps.Keys(adjacencies)) {
			edge := adjacencies[adjacency]
			desc.Statements = append(desc.Statements, statement{
				Source:         vertex,
				Target:         adjacency,
				EdgeWeight:     edge.Properties.Weight,
				EdgeAttributes: edge.Properties.Attributes,
			})
		}
	}

	return desc, nil
}

func renderDOT(wrt io.Writer, desc description) error {
	tpl, err := template.New("dotTemplate").Parse(dotTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	err = tpl.Execute(wrt, desc)
	if err != nil {
		return errors.Wrap(err, "unable to execute template")
	}

	return nil
}

var _ Drawer = (*DOTDrawer)(nil)
