package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/marcus/userdash/internal/api"
	"github.com/marcus/userdash/internal/journal"
	"github.com/marcus/userdash/internal/models"
	"github.com/marcus/userdash/internal/output"
	"github.com/marcus/userdash/internal/validate"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// stdin is read by import when the file is -
var stdin io.Reader = os.Stdin

// bulkLimit bounds concurrent requests for multi-user commands
const bulkLimit = 4

var usersCmd = &cobra.Command{
	Use:     "users",
	Aliases: []string{"user", "u"},
	Short:   "List and modify users without the dashboard",
}

var usersListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List one page of users",
	RunE: func(cmd *cobra.Command, args []string) error {
		page, _ := cmd.Flags().GetInt("page")
		if page < 1 {
			err := fmt.Errorf("page must be at least 1")
			output.Error("%v", err)
			return err
		}

		ctx, cancel := commandContext(cmd)
		defer cancel()

		p, err := newClient().ListPage(ctx, page, cfg.PageSize)
		if err != nil {
			slog.Error("list users failed", "page", page, "err", err)
			output.Error("%s", api.UserMessage(err, "failed to load users"))
			return err
		}

		if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
			return output.JSON(output.Stdout, listJSON{
				Page:       page,
				PageSize:   cfg.PageSize,
				TotalPages: p.TotalPages(cfg.PageSize),
				TotalCount: p.TotalCount,
				Users:      nonNil(p.Items),
			})
		}

		if err := output.Users(output.Stdout, p.Items); err != nil {
			return err
		}
		output.PageFooter(output.Stdout, page, p.TotalPages(cfg.PageSize), p.TotalCount)
		return nil
	},
}

type listJSON struct {
	Page       int           `json:"page"`
	PageSize   int           `json:"page_size"`
	TotalPages int           `json:"total_pages"`
	TotalCount int           `json:"total_count"`
	Users      []models.User `json:"users"`
}

func nonNil(users []models.User) []models.User {
	if users == nil {
		return []models.User{}
	}
	return users
}

var usersShowCmd = &cobra.Command{
	Use:   "show [user-id]",
	Short: "Show one user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		u, err := newClient().Get(ctx, models.ID(args[0]))
		if err != nil {
			slog.Error("get user failed", "id", args[0], "err", err)
			output.Error("%s", api.UserMessage(err, "failed to load user "+args[0]))
			return err
		}

		if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
			return output.JSON(output.Stdout, u)
		}
		return output.User(output.Stdout, u)
	},
}

var usersCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a user",
	Long: `Create a user. Every field is required and checked before the request is sent:
names need at least 3 letters, department is letters only.`,
	Example: `  userdash users create --first Alice --last Jones --email alice@example.com --department Engineering`,
	RunE: func(cmd *cobra.Command, args []string) error {
		draft := draftFromFlags(cmd, models.Draft{})
		if err := checkDraft(draft); err != nil {
			return err
		}

		ctx, cancel := commandContext(cmd)
		defer cancel()

		rec := openRecorder()
		defer rec.Close()

		u, err := newClient().Create(ctx, draft)
		rec.record(ctx, activityFor(models.ActionCreate, u.ID, draft, err))
		if err != nil {
			slog.Error("create user failed", "email", draft.Email, "err", err)
			output.Error("Failed to save user: %s", api.UserMessage(err, "request failed"))
			return err
		}

		if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
			return output.JSON(output.Stdout, u)
		}
		fmt.Fprintf(output.Stdout, "CREATED %s %s\n", u.ID, u.FullName())
		return nil
	},
}

var usersUpdateCmd = &cobra.Command{
	Use:   "update [user-id]",
	Short: "Update a user",
	Long: `Update a user. Fields not given as flags keep their current values; the
merged record is validated before it is sent.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := models.ID(args[0])
		client := newClient()

		ctx, cancel := commandContext(cmd)
		defer cancel()

		current, err := client.Get(ctx, id)
		if err != nil {
			slog.Error("get user failed", "id", id, "err", err)
			output.Error("%s", api.UserMessage(err, "failed to load user "+id.String()))
			return err
		}

		draft := draftFromFlags(cmd, models.DraftFrom(current))
		if err := checkDraft(draft); err != nil {
			return err
		}

		rec := openRecorder()
		defer rec.Close()

		u, err := client.Update(ctx, id, draft)
		rec.record(ctx, activityFor(models.ActionUpdate, id, draft, err))
		if err != nil {
			slog.Error("update user failed", "id", id, "err", err)
			output.Error("Failed to save user: %s", api.UserMessage(err, "request failed"))
			return err
		}

		if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
			return output.JSON(output.Stdout, u)
		}
		fmt.Fprintf(output.Stdout, "UPDATED %s %s\n", u.ID, u.FullName())
		return nil
	},
}

// deleteResult is the outcome for one id of a bulk delete
type deleteResult struct {
	id  models.ID
	err error
}

var usersDeleteCmd = &cobra.Command{
	Use:     "delete [user-id...]",
	Aliases: []string{"rm"},
	Short:   "Delete one or more users",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		rec := openRecorder()
		defer rec.Close()

		results := deleteUsers(ctx, newClient(), rec, args)

		failed := 0
		for _, r := range results {
			if r.err != nil {
				failed++
				output.Error("failed to delete %s: %s", r.id, api.UserMessage(r.err, r.err.Error()))
				continue
			}
			fmt.Fprintf(output.Stdout, "DELETED %s\n", r.id)
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d deletes failed", failed, len(args))
		}
		return nil
	},
}

type remover interface {
	Remove(ctx context.Context, id models.ID) (bool, error)
}

// deleteUsers removes ids with bounded concurrency. Results keep argument order.
func deleteUsers(ctx context.Context, client remover, rec recorder, ids []string) []deleteResult {
	results := make([]deleteResult, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(bulkLimit)

	for i, raw := range ids {
		id := models.ID(raw)
		results[i].id = id
		g.Go(func() error {
			ok, err := client.Remove(gctx, id)
			if err == nil && !ok {
				err = fmt.Errorf("delete %s: not confirmed by server", id)
			}
			if err != nil {
				slog.Error("delete user failed", "id", id, "err", err)
			}
			results[i].err = err
			rec.record(ctx, activityFor(models.ActionDelete, id, models.Draft{}, err))
			// one failure must not cancel the others
			return nil
		})
	}
	_ = g.Wait()
	return results
}

var usersImportCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Create users from a JSON array of drafts",
	Long: `Create users from a JSON file holding an array of objects with firstName,
lastName, email and department. Use - to read stdin. Every record is validated
before any request is sent; nothing is created if one is invalid.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		drafts, err := readDrafts(args[0])
		if err != nil {
			output.Error("%v", err)
			return err
		}

		var invalid int
		for i, d := range drafts {
			if err := validate.Draft(d); err != nil {
				invalid++
				output.Error("record %d: %v", i+1, err)
			}
		}
		if invalid > 0 {
			return fmt.Errorf("%d invalid records, nothing imported", invalid)
		}

		ctx, cancel := commandContext(cmd)
		defer cancel()

		rec := openRecorder()
		defer rec.Close()

		client := newClient()
		created := make([]models.User, len(drafts))
		errs := make([]error, len(drafts))
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(bulkLimit)
		for i, d := range drafts {
			g.Go(func() error {
				u, err := client.Create(gctx, d)
				rec.record(ctx, activityFor(models.ActionCreate, u.ID, d, err))
				created[i], errs[i] = u, err
				return nil
			})
		}
		_ = g.Wait()

		var failed int
		for i, err := range errs {
			if err != nil {
				failed++
				slog.Error("import record failed", "record", i+1, "err", err)
				output.Error("record %d: %s", i+1, api.UserMessage(err, err.Error()))
				continue
			}
			fmt.Fprintf(output.Stdout, "CREATED %s %s\n", created[i].ID, created[i].FullName())
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d records failed", failed, len(drafts))
		}
		return nil
	},
}

// readDrafts decodes a JSON array of drafts and trims every field
func readDrafts(path string) ([]models.Draft, error) {
	var r io.Reader = stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		defer f.Close()
		r = f
	}

	var drafts []models.Draft
	if err := json.NewDecoder(r).Decode(&drafts); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(drafts) == 0 {
		return nil, fmt.Errorf("%s: no records", path)
	}
	return trimAll(drafts), nil
}

func trimAll(drafts []models.Draft) []models.Draft {
	for i := range drafts {
		drafts[i] = drafts[i].Trimmed()
	}
	return drafts
}

// draftFromFlags overlays any field flags the user set onto base
func draftFromFlags(cmd *cobra.Command, base models.Draft) models.Draft {
	flags := cmd.Flags()
	set := func(name string, dst *string) {
		if flags.Changed(name) {
			*dst, _ = flags.GetString(name)
		}
	}
	set("first", &base.FirstName)
	set("last", &base.LastName)
	set("email", &base.Email)
	set("department", &base.Department)
	return base.Trimmed()
}

// checkDraft prints one line per violation
func checkDraft(d models.Draft) error {
	err := validate.Draft(d)
	var verr *validate.ValidationError
	if errors.As(err, &verr) {
		for _, v := range verr.Violations {
			output.Error("%s", v.Message)
		}
	}
	return err
}

// activityFor builds the journal entry for a CLI mutation
func activityFor(action models.ActionType, id models.ID, d models.Draft, err error) models.ActivityEntry {
	summary := string(action) + "d"
	if name := (models.User{FirstName: d.FirstName, LastName: d.LastName}).FullName(); name != "" {
		summary += " " + name
	} else if id != "" {
		summary += " user " + id.String()
	}
	e := models.ActivityEntry{Action: action, UserID: id, Summary: summary, OK: err == nil}
	if err != nil {
		e.Error = api.UserMessage(err, err.Error())
	}
	return e
}

// recorder journals CLI mutations. A zero recorder drops entries.
type recorder struct {
	j *journal.Journal
}

// openRecorder opens the journal once for the whole command
func openRecorder() recorder {
	j, err := openJournal()
	if err != nil {
		output.Warning("activity journal unavailable: %v", err)
	}
	return recorder{j: j}
}

// record failures are logged and otherwise ignored
func (r recorder) record(ctx context.Context, e models.ActivityEntry) {
	if r.j == nil {
		return
	}
	if _, err := r.j.Record(context.WithoutCancel(ctx), e); err != nil {
		slog.Warn("journal record failed", "action", e.Action, "err", err)
	}
}

func (r recorder) Close() {
	if r.j != nil {
		r.j.Close()
	}
}

// commandContext derives the context for one CLI command
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if d := commandTimeout(); d > 0 {
		return context.WithTimeout(ctx, d)
	}
	return context.WithCancel(ctx)
}

func addDraftFlags(cmd *cobra.Command) {
	cmd.Flags().String("first", "", "First name")
	cmd.Flags().String("last", "", "Last name")
	cmd.Flags().String("email", "", "Email address")
	cmd.Flags().String("department", "", "Department")
}

func init() {
	usersListCmd.Flags().Int("page", 1, "Page number")
	usersListCmd.Flags().Bool("json", false, "JSON output")
	usersShowCmd.Flags().Bool("json", false, "JSON output")

	addDraftFlags(usersCreateCmd)
	usersCreateCmd.Flags().Bool("json", false, "JSON output")
	addDraftFlags(usersUpdateCmd)
	usersUpdateCmd.Flags().Bool("json", false, "JSON output")

	usersCmd.AddCommand(usersListCmd)
	usersCmd.AddCommand(usersShowCmd)
	usersCmd.AddCommand(usersCreateCmd)
	usersCmd.AddCommand(usersUpdateCmd)
	usersCmd.AddCommand(usersDeleteCmd)
	usersCmd.AddCommand(usersImportCmd)
	rootCmd.AddCommand(usersCmd)
}
