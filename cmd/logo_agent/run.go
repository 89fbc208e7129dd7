package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/logo-studio/internal/ingestion"
	"github.com/jonathan/logo-studio/internal/observability"
	"github.com/jonathan/logo-studio/internal/session"
	"github.com/jonathan/logo-studio/internal/types"
)

var runCommand = &cobra.Command{
	Use:   "run",
	Short: "Run transcript to profile to logos end-to-end",
	Long: `Extracts a brand profile from a transcript, applies any edits given as
flags, generates logos from the edited profile, and writes profile.json plus
one SVG per design to --out-dir.

Edits are applied in order: field replacements, removals by index (against
the list after replacement), then additions.`,
	RunE: runPipelineCmd,
}

var (
	runTranscript string
	runOutDir     string

	runName        string
	runIndustry    string
	runTone        string
	runTargetUsers string
	runValues      []string
	runCompetitors []string

	runAddValues         []string
	runRemoveValues      []int
	runAddCompetitors    []string
	runRemoveCompetitors []int
)

func init() {
	f := runCommand.Flags()
	f.StringVarP(&runTranscript, "transcript", "t", "", "Path to transcript file (required)")
	f.StringVarP(&runOutDir, "out-dir", "o", "logos", "Output directory")

	f.StringVar(&runName, "name", "", "Replace the company name")
	f.StringVar(&runIndustry, "industry", "", "Replace the industry")
	f.StringVar(&runTone, "tone", "", "Replace the brand tone")
	f.StringVar(&runTargetUsers, "target-users", "", "Replace the target users")
	f.StringSliceVar(&runValues, "values", nil, "Replace the values list")
	f.StringSliceVar(&runCompetitors, "competitors", nil, "Replace the competitors list")

	f.StringArrayVar(&runAddValues, "add-value", nil, "Append a value (repeatable)")
	f.IntSliceVar(&runRemoveValues, "remove-value", nil, "Remove the value at a 0-based index (repeatable)")
	f.StringArrayVar(&runAddCompetitors, "add-competitor", nil, "Append a competitor (repeatable)")
	f.IntSliceVar(&runRemoveCompetitors, "remove-competitor", nil, "Remove the competitor at a 0-based index (repeatable)")

	_ = runCommand.MarkFlagRequired("transcript")
	rootCmd.AddCommand(runCommand)
}

// editPlan is the set of profile edits requested on the command line
type editPlan struct {
	Edits             types.ProfileEdits
	RemoveValues      []int
	AddValues         []string
	RemoveCompetitors []int
	AddCompetitors    []string
}

func (p editPlan) empty() bool {
	e := p.Edits
	return e.CompanyName == nil && e.Industry == nil && e.Tone == nil && e.TargetUsers == nil &&
		e.Values == nil && e.Competitors == nil &&
		len(p.RemoveValues) == 0 && len(p.AddValues) == 0 &&
		len(p.RemoveCompetitors) == 0 && len(p.AddCompetitors) == 0
}

// apply runs the plan against the session profile. Removals go from the
// highest index down so earlier removals do not shift later ones.
func (p editPlan) apply(s *session.Session) error {
	if p.empty() {
		return nil
	}

	if _, err := s.EditProfile(p.Edits); err != nil {
		return err
	}

	for _, i := range descending(p.RemoveValues) {
		if _, err := s.RemoveValue(i); err != nil {
			return err
		}
	}
	for _, v := range p.AddValues {
		if _, err := s.AppendValue(v); err != nil {
			return err
		}
	}
	for _, i := range descending(p.RemoveCompetitors) {
		if _, err := s.RemoveCompetitor(i); err != nil {
			return err
		}
	}
	for _, c := range p.AddCompetitors {
		if _, err := s.AppendCompetitor(c); err != nil {
			return err
		}
	}
	return nil
}

func descending(indexes []int) []int {
	out := append([]int(nil), indexes...)
	sort.Sort(sort.Reverse(sort.IntSlice(out)))
	return out
}

// editPlanFromFlags collects the edits of the flags that were set
func editPlanFromFlags(cmd *cobra.Command) editPlan {
	flags := cmd.Flags()
	var plan editPlan

	if flags.Changed("name") {
		plan.Edits.CompanyName = &runName
	}
	if flags.Changed("industry") {
		plan.Edits.Industry = &runIndustry
	}
	if flags.Changed("tone") {
		plan.Edits.Tone = &runTone
	}
	if flags.Changed("target-users") {
		plan.Edits.TargetUsers = &runTargetUsers
	}
	if flags.Changed("values") {
		plan.Edits.Values = &runValues
	}
	if flags.Changed("competitors") {
		plan.Edits.Competitors = &runCompetitors
	}

	plan.RemoveValues = runRemoveValues
	plan.AddValues = runAddValues
	plan.RemoveCompetitors = runRemoveCompetitors
	plan.AddCompetitors = runAddCompetitors
	return plan
}

// runSession drives one session from transcript to logo set
func runSession(ctx context.Context, s *session.Session, transcript string, plan editPlan, bound func(context.Context) (context.Context, context.CancelFunc)) error {
	extractCtx, cancel := bound(ctx)
	_, err := s.Extract(extractCtx, transcript)
	cancel()
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	if err := plan.apply(s); err != nil {
		return fmt.Errorf("failed to apply edits: %w", err)
	}

	generateCtx, cancel := bound(ctx)
	defer cancel()
	if _, err := s.GenerateLogos(generateCtx); err != nil {
		return fmt.Errorf("logo generation failed: %w", err)
	}
	return nil
}

func runPipelineCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd, getenv)
	if err != nil {
		return err
	}

	transcript, meta, err := ingestion.LoadTranscript(runTranscript)
	if err != nil {
		return fmt.Errorf("failed to load transcript: %w", err)
	}

	p, closeClient, err := newPipeline(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer closeClient()

	s := session.New(p, logger)
	logger.Debug("session started", zap.String("session_id", s.ID))

	printer := observability.NewPrinter(os.Stdout)
	if cfg.Verbose {
		printer.PrintTranscript(transcript, meta)
	}

	bound := func(ctx context.Context) (context.Context, context.CancelFunc) {
		return withTimeout(ctx, cfg)
	}
	if err := runSession(cmd.Context(), s, transcript, editPlanFromFlags(cmd), bound); err != nil {
		return err
	}

	status := s.Status()
	if cfg.Verbose {
		printer.PrintBrandProfile(status.Profile)
		printer.PrintLogoSet(status.Logos)
	}

	if err := writeJSON(filepath.Join(runOutDir, "profile.json"), status.Profile); err != nil {
		return err
	}
	paths, err := writeArtifacts(cmd.Context(), runOutDir, status.Logos.Len(), s.Download)
	if err != nil {
		return err
	}

	printer.PrintWrittenFiles(append([]string{filepath.Join(runOutDir, "profile.json")}, paths...))
	return nil
}
