package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/gophdrive/internal/client/models"
	"github.com/dmitrijs2005/gophdrive/internal/client/upload"
	"github.com/dmitrijs2005/gophdrive/internal/common"
	"github.com/dustin/go-humanize"
)

var errUsage = errors.New("usage")

func usage(s string) error {
	return fmt.Errorf("%w: %s", errUsage, s)
}

func (a *App) List(ctx context.Context, args []string) error {
	p := ""
	if len(args) > 0 {
		p = args[0]
	}
	l, err := a.browse.List(ctx, p)
	if err != nil {
		return err
	}
	printListing(a.out, l)
	return nil
}

func (a *App) Chdir(ctx context.Context, args []string) error {
	p := "/"
	if len(args) > 0 {
		p = args[0]
	}
	_, err := a.browse.Chdir(ctx, p)
	return err
}

func (a *App) Pwd(ctx context.Context, args []string) error {
	printlnFn("/" + a.browse.Cwd())
	return nil
}

func (a *App) Mkdir(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("mkdir <name>")
	}
	return a.browse.CreateFolder(ctx, args[0])
}

func (a *App) Rm(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usage("rm <path>...")
	}
	var errs []error
	for _, p := range args {
		if err := a.browse.Delete(ctx, p); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (a *App) Mv(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return usage("mv <path> <folder>")
	}
	p, err := a.browse.Move(ctx, args[0], args[1])
	if err != nil {
		return err
	}
	printlnFn("moved to /" + p)
	return nil
}

func (a *App) Rename(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return usage("rename <path> <new name>")
	}
	p, err := a.browse.Rename(ctx, args[0], args[1])
	if err != nil {
		return err
	}
	printlnFn("renamed to /" + p)
	return nil
}

func (a *App) Get(ctx context.Context, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return usage("get <remote path> [local path]")
	}
	local := ""
	if len(args) == 2 {
		local = args[1]
	}
	n, err := a.browse.Download(ctx, args[0], local)
	if err != nil {
		return err
	}
	printlnFn(fmt.Sprintf("downloaded %s", humanize.IBytes(uint64(n))))
	return nil
}

func (a *App) Zip(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return usage("zip <local zip> <remote path>...")
	}
	n, err := a.browse.DownloadArchive(ctx, args[1:], args[0])
	if err != nil {
		return err
	}
	printlnFn(fmt.Sprintf("downloaded %d item(s), %s", len(args)-1, humanize.IBytes(uint64(n))))
	return nil
}

func (a *App) Put(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usage("put <local path>...")
	}
	ids, err := a.uploads.Put(ctx, args...)
	if len(ids) > 0 {
		printlnFn(fmt.Sprintf("%d file(s) queued for /%s", len(ids), a.browse.Cwd()))
	}
	return err
}

func (a *App) Queue(ctx context.Context, args []string) error {
	tasks := a.uploads.Tasks()
	if len(tasks) == 0 {
		printlnFn("upload queue is empty")
		return nil
	}
	printQueue(a.out, tasks)
	return nil
}

func (a *App) Pause(ctx context.Context, args []string) error {
	a.uploads.Pause()
	return nil
}

func (a *App) Resume(ctx context.Context, args []string) error {
	a.uploads.Resume(ctx)
	return nil
}

func (a *App) Cancel(ctx context.Context, args []string) error {
	a.uploads.CancelAll(ctx)
	return nil
}

// RemoveTask drops one task, addressed by its id or an unambiguous prefix.
func (a *App) RemoveTask(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("remove <task id>")
	}
	id, err := matchTask(a.uploads.Tasks(), args[0])
	if err != nil {
		return err
	}
	a.uploads.Remove(ctx, id)
	return nil
}

func (a *App) Restore(ctx context.Context, args []string) error {
	n, err := a.uploads.Restore(ctx, true)
	if err != nil {
		return err
	}
	printlnFn(fmt.Sprintf("%d upload(s) restored", n))
	return nil
}

func matchTask(tasks []upload.TaskView, prefix string) (string, error) {
	var found []string
	for _, t := range tasks {
		if t.ID == prefix {
			return t.ID, nil
		}
		if strings.HasPrefix(t.ID, prefix) {
			found = append(found, t.ID)
		}
	}
	switch len(found) {
	case 0:
		return "", fmt.Errorf("%w: no task %q", common.ErrNotFound, prefix)
	case 1:
		return found[0], nil
	default:
		return "", fmt.Errorf("%w: %q matches %d tasks", common.ErrValidation, prefix, len(found))
	}
}

func printListing(w io.Writer, l *models.Listing) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "/%s\n", l.Path)
	for _, e := range l.Files {
		if e.IsFolder() {
			fmt.Fprintf(tw, "d\t%s/\t%d items\t%s\n", e.Name, e.FileCount, e.Modified)
			continue
		}
		fmt.Fprintf(tw, "-\t%s\t%s\t%s\n", e.Name, humanize.IBytes(uint64(e.Size)), e.Modified)
	}
	_ = tw.Flush()
}

func printQueue(w io.Writer, tasks []upload.TaskView) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATUS\tPROGRESS\tSIZE\tDESTINATION")
	for _, t := range tasks {
		status := string(t.Status)
		if t.Err != nil {
			status += ": " + t.Err.Error()
		}
		fmt.Fprintf(tw, "%s\t%s\t%d/%d\t%s\t/%s\n", shortID(t.ID), status,
			len(t.UploadedChunks), t.TotalChunks, humanize.IBytes(uint64(t.Size)), t.DestinationPath)
	}
	_ = tw.Flush()
}
