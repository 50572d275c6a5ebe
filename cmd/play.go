package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/lingua/internal/access"
	"github.com/abhisek/lingua/internal/config"
	"github.com/abhisek/lingua/internal/session"
	"github.com/abhisek/lingua/internal/sweeper"
	"github.com/abhisek/lingua/internal/transcript"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Run a tutoring session from the terminal",
	Long: "Starts a session for a student against a module and scores each typed turn.\n" +
		"Type " + session.EndCommand + " to end the session early.",
	RunE: runPlay,
}

func init() {
	playCmd.Flags().String("student", "", "Student ID")
	playCmd.Flags().String("module", "", "Module ID")
	playCmd.MarkFlagRequired("student")
	playCmd.MarkFlagRequired("module")
}

func runPlay(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	engine := session.NewEngine(s, s, s, s, logger)

	sw := sweeper.New(engine, cfg.AbandonAfter, logger)
	if err := sw.Start(cfg.SweepInterval); err != nil {
		return fmt.Errorf("start sweeper: %w", err)
	}
	defer sw.Stop()

	ctx := cmd.Context()
	studentID, _ := cmd.Flags().GetString("student")
	moduleID, _ := cmd.Flags().GetString("module")

	rec, err := engine.StartSession(ctx, studentID, moduleID)
	if err != nil {
		var ade *access.AccessDeniedError
		if errors.As(err, &ade) {
			return fmt.Errorf("module tier %s is above your current tier %s", ade.ModuleTier, ade.StudentTier)
		}
		return err
	}
	fmt.Printf("Session %s started. Type your turns, %s to finish.\n", rec.ID, session.EndCommand)

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for scanner.Scan() {
		turn := transcript.Turn{
			Speaker:   transcript.SpeakerStudent,
			Text:      scanner.Text(),
			Modality:  transcript.ModalityTyped,
			Timestamp: time.Now(),
		}

		breakdown, err := engine.AppendTurn(ctx, rec.ID, turn)
		if err != nil {
			return err
		}
		fmt.Printf("score: %.1f (completed: %v)\n", breakdown.CompletionScore, breakdown.IsCompleted)

		current, err := engine.Session(rec.ID)
		if err != nil {
			return err
		}
		if current.State.Terminal() {
			fmt.Printf("Session %s: %s\n", rec.ID, current.State)
			return nil
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	// Stdin closed without an explicit end: treat as a manual end.
	final, err := engine.EndSession(ctx, rec.ID, session.ReasonExplicit)
	if err != nil {
		return err
	}
	fmt.Printf("Session %s: %s\n", final.ID, final.State)
	return nil
}
