package jq

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/itchyny/gojq"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	cmdpkg "github.com/kong/gridctl/internal/cmd"
	cmdcommon "github.com/kong/gridctl/internal/cmd/common"
	"github.com/kong/gridctl/internal/config"
	"github.com/kong/gridctl/internal/render"
)

const (
	FlagName                    = "jq"
	ColorFlagName               = "jq-color"
	ColorThemeFlagName          = "jq-color-theme"
	RawOutputFlagName           = "jq-raw-output"
	RawOutputFlagShort          = "r"
	DefaultExpressionConfigPath = "jq.default-expression"
	ColorEnabledConfigPath      = "jq.color.enabled"
	ColorThemeConfigPath        = "jq.color.theme"
	RawOutputConfigPath         = "jq.raw-output"
	DefaultTheme                = render.DefaultTheme
)

var jqQueryCache sync.Map

// Settings is the resolved jq configuration for one command run.
type Settings struct {
	Filter    string
	ColorMode cmdcommon.ColorMode
	Theme     string
	RawOutput bool
}

func AddFlags(flags *pflag.FlagSet) {
	flags.String(FlagName, "",
		"Filter the printed rows using a jq expression (powered by gojq)")

	jqColor := cmdpkg.NewEnum([]string{
		cmdcommon.ColorModeAuto.String(),
		cmdcommon.ColorModeAlways.String(),
		cmdcommon.ColorModeNever.String(),
	}, cmdcommon.DefaultColorMode)
	flags.Var(jqColor, ColorFlagName,
		fmt.Sprintf(`Controls colorized output for jq filter results.
- Config path: [ %s ]
- Allowed    : [ auto|always|never ]`, ColorEnabledConfigPath))

	flags.String(ColorThemeFlagName, DefaultTheme,
		fmt.Sprintf(`Select the chroma style used for jq filter results.
- Config path: [ %s ]
- Examples   : [ friendly, github-dark, dracula ]`, ColorThemeConfigPath))

	flags.BoolP(RawOutputFlagName, RawOutputFlagShort, false,
		fmt.Sprintf(`Output string jq results without JSON quotes (like jq -r).
- Config path: [ %s ]`, RawOutputConfigPath))
}

func BindFlags(cfg config.Hook, flags *pflag.FlagSet) error {
	if cfg == nil || flags == nil {
		return nil
	}
	bindings := []struct{ flag, cfgPath string }{
		{ColorFlagName, ColorEnabledConfigPath},
		{ColorThemeFlagName, ColorThemeConfigPath},
		{RawOutputFlagName, RawOutputConfigPath},
	}
	for _, b := range bindings {
		f := flags.Lookup(b.flag)
		if f == nil {
			continue
		}
		if err := cfg.BindFlag(b.cfgPath, f); err != nil {
			return err
		}
	}
	return nil
}

// ResolveSettings merges the jq flags of command with cfg. Commands that do
// not register --jq never pick up a configured default expression.
func ResolveSettings(command *cobra.Command, cfg config.Hook) (Settings, error) {
	settings := Settings{
		Theme:     DefaultTheme,
		ColorMode: cmdcommon.ColorModeAuto,
	}
	if command == nil || command.Flags().Lookup(FlagName) == nil {
		return settings, nil
	}
	flags := command.Flags()

	filter, err := flags.GetString(FlagName)
	if err != nil {
		return Settings{}, err
	}
	filter = strings.TrimSpace(filter)
	if flags.Changed(FlagName) && filter == "" {
		filter = "."
	}
	settings.Filter = filter

	if cfg == nil {
		if flags.Lookup(RawOutputFlagName) != nil {
			if settings.RawOutput, err = flags.GetBool(RawOutputFlagName); err != nil {
				return Settings{}, err
			}
		}
		return settings, nil
	}

	if !flags.Changed(FlagName) {
		if expr := strings.TrimSpace(cfg.GetString(DefaultExpressionConfigPath)); expr != "" {
			settings.Filter = expr
		}
	}
	mode := strings.ToLower(strings.TrimSpace(cfg.GetString(ColorEnabledConfigPath)))
	if settings.ColorMode, err = cmdcommon.ColorModeStringToIota(mode); err != nil {
		return Settings{}, err
	}
	if theme := strings.TrimSpace(cfg.GetString(ColorThemeConfigPath)); theme != "" {
		settings.Theme = theme
	}
	settings.RawOutput = cfg.GetBool(RawOutputConfigPath)
	return settings, nil
}

func HasFilter(settings Settings) bool {
	return strings.TrimSpace(settings.Filter) != ""
}

func ValidateOutputFormat(outType cmdcommon.OutputFormat, settings Settings) error {
	switch {
	case settings.RawOutput && !HasFilter(settings):
		return &cmdpkg.ConfigurationError{
			Err: fmt.Errorf("--%s requires --%s", RawOutputFlagName, FlagName),
		}
	case settings.RawOutput && outType != cmdcommon.JSON:
		return &cmdpkg.ConfigurationError{
			Err: fmt.Errorf("--%s is only supported with --output json when used with --%s",
				RawOutputFlagName, FlagName),
		}
	case HasFilter(settings) && outType != cmdcommon.JSON && outType != cmdcommon.YAML:
		return &cmdpkg.ConfigurationError{
			Err: fmt.Errorf("--%s is only supported with --output json or --output yaml", FlagName),
		}
	}
	return nil
}

// ApplyToRaw filters raw. When the result was already written to out
// (raw or colorized output) handled is true and the caller prints nothing.
func ApplyToRaw(raw any, outType cmdcommon.OutputFormat, settings Settings, out io.Writer) (any, bool, error) {
	if !HasFilter(settings) {
		return raw, false, nil
	}
	if err := ValidateOutputFormat(outType, settings); err != nil {
		return nil, false, err
	}

	body, err := json.Marshal(raw)
	if err != nil {
		return nil, false, fmt.Errorf("failed to encode output before applying jq filter: %w", err)
	}

	if settings.RawOutput {
		if err := ApplyRawFilter(body, settings.Filter, out); err != nil {
			return nil, false, err
		}
		return nil, true, nil
	}

	filtered, err := ApplyFilter(body, settings.Filter)
	if err != nil {
		return nil, false, err
	}

	if outType == cmdcommon.JSON && ShouldUseColor(settings.ColorMode, out) {
		printable := MaybeColorizeOutput(filtered, BodyToPrintable(filtered), settings.Theme)
		if _, err := fmt.Fprintln(out, strings.TrimRight(printable, "\n")); err != nil {
			return nil, false, err
		}
		return nil, true, nil
	}

	var payload any
	if len(filtered) > 0 {
		if err := json.Unmarshal(filtered, &payload); err != nil {
			payload = strings.TrimRight(BodyToPrintable(filtered), "\n")
		}
	}
	return payload, false, nil
}

func ApplyFilter(body []byte, filter string) ([]byte, error) {
	results, err := evaluateFilterResults(body, filter)
	if err != nil {
		return nil, err
	}
	return encodeFilterResults(results)
}

func ApplyRawFilter(body []byte, filter string, out io.Writer) error {
	results, err := evaluateFilterResults(body, filter)
	if err != nil {
		return err
	}
	for _, result := range results {
		if err := writeRawValue(result, out); err != nil {
			return err
		}
	}
	return nil
}

// Select runs filter against an in-memory document and returns every result.
// The document is normalized through JSON first so any encodable value can
// be queried.
func Select(doc any, filter string) ([]any, error) {
	body, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode document before applying jq filter: %w", err)
	}
	return evaluateFilterResults(body, filter)
}

func evaluateFilterResults(body []byte, filter string) ([]any, error) {
	filter = strings.TrimSpace(filter)
	if filter == "" {
		filter = "."
	}
	if len(body) == 0 {
		return nil, errors.New("document is empty, cannot apply jq filter")
	}

	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("document is not valid JSON: %w", err)
	}

	query, err := getCachedQuery(filter)
	if err != nil {
		return nil, err
	}

	iter := query.Run(payload)
	var results []any
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, isErr := v.(error); isErr {
			return nil, fmt.Errorf("jq filter failed: %w", err)
		}
		results = append(results, normalizeGoJQValue(v))
	}
	return results, nil
}

func encodeFilterResults(results []any) ([]byte, error) {
	var value any
	switch len(results) {
	case 0:
		return []byte("null"), nil
	case 1:
		value = results[0]
	default:
		value = results
	}
	filtered, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("failed to encode filtered result: %w", err)
	}
	return filtered, nil
}

func writeRawValue(value any, out io.Writer) error {
	line, ok := value.(string)
	if !ok {
		encoded, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("failed to encode filtered result: %w", err)
		}
		line = string(encoded)
	}
	_, err := fmt.Fprintln(out, line)
	return err
}

func getCachedQuery(filter string) (*gojq.Code, error) {
	if code, ok := jqQueryCache.Load(filter); ok {
		if cached, ok := code.(*gojq.Code); ok {
			return cached, nil
		}
	}

	parsed, err := gojq.Parse(filter)
	if err != nil {
		return nil, fmt.Errorf("invalid jq expression: %w", err)
	}
	code, err := gojq.Compile(parsed)
	if err != nil {
		return nil, fmt.Errorf("failed to compile jq expression: %w", err)
	}
	jqQueryCache.Store(filter, code)
	return code, nil
}

func normalizeGoJQValue(v any) any {
	switch value := v.(type) {
	case map[any]any:
		converted := make(map[string]any, len(value))
		for k, val := range value {
			converted[fmt.Sprint(k)] = normalizeGoJQValue(val)
		}
		return converted
	case map[string]any:
		for k, val := range value {
			value[k] = normalizeGoJQValue(val)
		}
		return value
	case []any:
		for i := range value {
			value[i] = normalizeGoJQValue(value[i])
		}
		return value
	default:
		return value
	}
}

func BodyToPrintable(body []byte) string {
	var js any
	if err := json.Unmarshal(body, &js); err != nil {
		return string(body)
	}
	formatted, err := json.MarshalIndent(js, "", "  ")
	if err != nil {
		return string(body)
	}
	return string(formatted)
}

var terminalDetector = func(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func ShouldUseColor(mode cmdcommon.ColorMode, out io.Writer) bool {
	switch mode {
	case cmdcommon.ColorModeAlways:
		return true
	case cmdcommon.ColorModeNever:
		return false
	default:
		if _, disabled := os.LookupEnv("NO_COLOR"); disabled {
			return false
		}
		fw, ok := out.(interface{ Fd() uintptr })
		return ok && terminalDetector(fw.Fd())
	}
}

// MaybeColorizeOutput highlights formatted when raw holds an object or array.
// Scalars are returned as is.
func MaybeColorizeOutput(raw []byte, formatted, theme string) string {
	var payload any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return formatted
	}
	switch payload.(type) {
	case map[string]any, []any:
		return render.Highlight(formatted, "json", theme)
	default:
		return formatted
	}
}
