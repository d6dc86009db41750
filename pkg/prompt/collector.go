package prompt

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-formschema/pkg/schemamodel"
)

const skipOption = "(skip)"

var errRequired = errors.New("a value is required")

// Option configures a Collector.
type Option func(*Collector)

// WithPromptDriver overrides the prompt driver used by the collector.
func WithPromptDriver(driver PromptDriver) Option {
	return func(c *Collector) {
		if driver != nil {
			c.driver = driver
		}
	}
}

// WithDefaults pre-fills prompts with previously entered raw values.
func WithDefaults(values map[string]string) Option {
	return func(c *Collector) {
		c.defaults = values
	}
}

// WithCoerceOptions forwards options to the coercer used by Fill.
func WithCoerceOptions(options ...schemamodel.CoerceOption) Option {
	return func(c *Collector) {
		c.coerce = append(c.coerce, options...)
	}
}

// Collector asks for one value per model property, in model order.
type Collector struct {
	driver   PromptDriver
	defaults map[string]string
	coerce   []schemamodel.CoerceOption
}

// NewCollector constructs a Collector using the survey driver unless another
// driver is supplied.
func NewCollector(options ...Option) *Collector {
	c := &Collector{driver: NewSurveyDriver()}
	for _, opt := range options {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Collect prompts for every property and returns the raw string values.
// Optional properties left blank are omitted. Each answer is checked with the
// same coercion rules TypedJSONFromSchemaModel applies, so invalid input is
// re-prompted by the driver.
func (c *Collector) Collect(ctx context.Context, m schemamodel.SchemaModel) (map[string]string, error) {
	if ctx == nil {
		return nil, errors.New("prompt: context is required")
	}
	if c.driver == nil {
		return nil, errors.New("prompt: prompt driver is nil")
	}

	raw := make(map[string]string, len(m.Properties))
	for _, prop := range m.Properties {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !prop.Type.Supported() {
			msg := fmt.Sprintf("Skipping %s: property type %q is not supported", displayLabel(prop), prop.Type)
			if err := c.driver.Info(ctx, msg); err != nil {
				return nil, err
			}
			continue
		}

		value, provided, err := c.promptProperty(ctx, prop)
		if err != nil {
			return nil, fmt.Errorf("prompt: %s: %w", prop.ID, err)
		}
		if provided {
			raw[prop.ID] = value
		}
	}
	return raw, nil
}

// Fill collects raw values and coerces them into JSON-typed values.
func (c *Collector) Fill(ctx context.Context, m schemamodel.SchemaModel) (map[string]any, error) {
	raw, err := c.Collect(ctx, m)
	if err != nil {
		return nil, err
	}
	return schemamodel.TypedJSONFromSchemaModel(m, raw, c.coerce...)
}

func (c *Collector) promptProperty(ctx context.Context, prop schemamodel.SchemaModelProperty) (string, bool, error) {
	if prop.Type == schemamodel.TypeBoolean {
		return c.promptBoolean(ctx, prop)
	}

	value, err := c.driver.Input(ctx, InputConfig{
		Message:   displayLabel(prop),
		Default:   c.defaults[prop.ID],
		Help:      prop.Description,
		Validator: validatorFor(prop),
	})
	if err != nil {
		return "", false, err
	}
	if value == "" && !prop.Required {
		return "", false, nil
	}
	return value, true, nil
}

func (c *Collector) promptBoolean(ctx context.Context, prop schemamodel.SchemaModelProperty) (string, bool, error) {
	options := []string{"true", "false"}
	if !prop.Required {
		options = append([]string{skipOption}, options...)
	}
	defaultIndex := 0
	if current, ok := c.defaults[prop.ID]; ok {
		if idx := indexOf(options, current); idx >= 0 {
			defaultIndex = idx
		}
	}

	idx, err := c.driver.Select(ctx, SelectConfig{
		Message:      displayLabel(prop),
		Options:      options,
		DefaultIndex: defaultIndex,
		Help:         prop.Description,
	})
	if err != nil {
		return "", false, err
	}
	if idx < 0 || idx >= len(options) {
		return "", false, fmt.Errorf("selection %d out of range", idx)
	}
	if options[idx] == skipOption {
		return "", false, nil
	}
	return options[idx], true, nil
}

func validatorFor(prop schemamodel.SchemaModelProperty) func(string) error {
	return func(value string) error {
		if value == "" {
			if prop.Required {
				return errRequired
			}
			return nil
		}
		_, err := schemamodel.CoerceValue(prop, value)
		return err
	}
}

func displayLabel(prop schemamodel.SchemaModelProperty) string {
	label := strings.TrimSpace(prop.Title)
	if label == "" {
		label = prop.ID
	}
	if prop.Required {
		label += " *"
	}
	return label
}
