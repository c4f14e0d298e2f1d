package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"annexval/adapters/excel"
	"annexval/adapters/report"
	"annexval/app"
	"annexval/domain/coercion"
	"annexval/domain/rules"
	"annexval/domain/validation"
	apperrors "annexval/internal/errors"
)

// Exit codes: 0 all findings resolved or none, 1 non-fixable findings
// remain, 2 the rule table itself is unusable.
const (
	exitOK          = 0
	exitFindings    = 1
	exitSchemaError = 2
)

var rootCmd = &cobra.Command{
	Use:   "annexval",
	Short: "Validate tabular datasets against a rule workbook",
	Long: `annexval compiles a 6-column rule sheet into a validation spec, checks a
dataset workbook against it, applies requested column fixes and exports the
result. Fixable findings (date format issues) can be coerced in place;
non-fixable findings must be corrected at the source.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a dataset workbook against a rules workbook",
	RunE:  runValidate,
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := validateCmd.Flags()
	flags.String("rules", "", "rules workbook (.xlsx)")
	flags.String("input", "", "dataset workbook (.xlsx)")
	flags.String("rules-sheet", "", "rule sheet name (default: first sheet)")
	flags.String("states-sheet", "", "state master sheet name (default: skip)")
	flags.String("report", "text", "report format: text or md")
	flags.StringArray("fix", nil, "column fix as Field=type[:format], repeatable")
	flags.String("output", "", "write the fixed dataset to this .xlsx file")

	viper.BindPFlag("rules", flags.Lookup("rules"))
	viper.BindPFlag("input", flags.Lookup("input"))
	viper.BindPFlag("rules-sheet", flags.Lookup("rules-sheet"))
	viper.BindPFlag("states-sheet", flags.Lookup("states-sheet"))
	viper.BindPFlag("report", flags.Lookup("report"))
	viper.BindPFlag("output", flags.Lookup("output"))

	rootCmd.AddCommand(validateCmd)
}

// initConfig resolves settings as flag > ANNEXVAL_* env > config file.
func initConfig() {
	viper.SetConfigName("annexval")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	viper.SetEnvPrefix("ANNEXVAL")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	rulesPath := viper.GetString("rules")
	inputPath := viper.GetString("input")
	if rulesPath == "" || inputPath == "" {
		return fmt.Errorf("--rules and --input are required")
	}

	ctx := context.Background()
	reader := excel.NewReader()

	ruleTable, err := reader.LoadRuleTableFile(ctx, rulesPath, viper.GetString("rules-sheet"))
	if err != nil {
		return exitWith(err)
	}
	spec, err := rules.Compile(ruleTable)
	if err != nil {
		return exitWith(err)
	}

	states := rules.NewStateMaster(nil)
	if sheet := viper.GetString("states-sheet"); sheet != "" {
		states, err = reader.LoadStateMasterFile(ctx, rulesPath, sheet)
		if err != nil {
			return exitWith(err)
		}
	}

	data, err := reader.LoadDatasetFile(ctx, inputPath)
	if err != nil {
		return exitWith(err)
	}

	session := app.NewDatasetSession(spec, states, data)

	fixes, err := cmd.Flags().GetStringArray("fix")
	if err != nil {
		return err
	}
	for _, raw := range fixes {
		req, err := parseFix(raw)
		if err != nil {
			return err
		}
		result, _, err := session.ApplyCoercion(req)
		if err != nil {
			// A failed fix is isolated to its field; keep going.
			fmt.Fprintf(os.Stderr, "fix %q skipped: %v\n", raw, err)
			continue
		}
		fmt.Fprintf(os.Stderr, "fixed %q as %s (%d rows, %d unparseable)\n",
			result.Field, result.Target, result.Rows, result.Unparseable)
	}

	rep := session.Report()
	printReport(cmd.OutOrStdout(), rep, viper.GetString("report"))

	if output := viper.GetString("output"); output != "" {
		f, err := os.Create(output)
		if err != nil {
			return err
		}
		if err := session.Export(ctx, excel.NewWriter(), f); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "exported %s\n", output)
	}

	if len(rep.NonFixable) > 0 {
		os.Exit(exitFindings)
	}
	return nil
}

// parseFix turns Field=type[:format] into a coercion request.
func parseFix(raw string) (coercion.Request, error) {
	name, spec, ok := strings.Cut(raw, "=")
	if !ok || strings.TrimSpace(name) == "" {
		return coercion.Request{}, fmt.Errorf("invalid fix %q: expected Field=type[:format]", raw)
	}

	targetRaw, format, _ := strings.Cut(spec, ":")
	target, err := coercion.ParseTargetType(targetRaw)
	if err != nil {
		return coercion.Request{}, fmt.Errorf("invalid fix %q: %w", raw, err)
	}

	return coercion.Request{
		Field:  strings.TrimSpace(name),
		Target: target,
		Format: strings.TrimSpace(format),
	}, nil
}

func printReport(w io.Writer, rep *validation.Report, format string) {
	switch format {
	case "md", "markdown":
		w.Write(report.NewRenderer().RenderMarkdown(rep))
		return
	}

	fmt.Fprintln(w, rep.Summary())
	if len(rep.NonFixable) > 0 {
		fmt.Fprintln(w, "\nIssues requiring source changes:")
		for _, f := range rep.NonFixable {
			fmt.Fprintf(w, "  - %s\n", f.Message)
		}
	}
	if len(rep.Fixable) > 0 {
		fmt.Fprintln(w, "\nFixable issues (re-run with --fix):")
		for _, f := range rep.Fixable {
			hint := string(f.SuggestedType)
			if f.SuggestedFormat != "" {
				hint += ":" + f.SuggestedFormat
			}
			fmt.Fprintf(w, "  - %s (--fix %q)\n", f.Message, f.Field+"="+hint)
		}
	}
}

// exitWith terminates with the schema exit code when the rule set is
// unusable; other errors bubble up as exit 1 through Execute.
func exitWith(err error) error {
	if apperrors.IsSchemaError(err) {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitSchemaError)
	}
	return err
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitFindings)
	}
}
