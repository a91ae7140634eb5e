package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to. App satisfies
// it; tests use a recording stub.
type execIface interface {
	List(ctx context.Context, args []string) error
	Chdir(ctx context.Context, args []string) error
	Pwd(ctx context.Context, args []string) error
	Mkdir(ctx context.Context, args []string) error
	Rm(ctx context.Context, args []string) error
	Mv(ctx context.Context, args []string) error
	Rename(ctx context.Context, args []string) error
	Get(ctx context.Context, args []string) error
	Zip(ctx context.Context, args []string) error
	Put(ctx context.Context, args []string) error
	Queue(ctx context.Context, args []string) error
	Pause(ctx context.Context, args []string) error
	Resume(ctx context.Context, args []string) error
	Cancel(ctx context.Context, args []string) error
	RemoveTask(ctx context.Context, args []string) error
	Restore(ctx context.Context, args []string) error
}

const helpText = `Available commands:
  ls [path]               list a remote folder
  cd [path]               change the remote folder (no argument: root)
  pwd                     print the remote folder
  mkdir <name>            create a folder here
  rm <path>...            delete files or folders
  mv <path> <folder>      move into another folder
  rename <path> <name>    rename in place
  get <path> [local]      download a file
  zip <local> <path>...   download several files and folders as one zip
  put <local>...          upload files and folders here
  queue                   show the upload queue
  pause | resume          pause or resume all uploads
  cancel                  cancel every upload
  remove <id>             remove one upload (id prefix is enough)
  restore                 re-queue journaled uploads, failed ones included
  exit | quit             leave`

// runREPL reads commands from scanner and dispatches them to a until EOF,
// "exit" or "quit", or ctx is cancelled. Handler errors are printed and
// the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("gd %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var err error
		switch cmd {
		case "help":
			printlnFn(helpText)
		case "ls", "l":
			err = a.List(ctx, args)
		case "cd":
			err = a.Chdir(ctx, args)
		case "pwd":
			err = a.Pwd(ctx, args)
		case "mkdir":
			err = a.Mkdir(ctx, args)
		case "rm":
			err = a.Rm(ctx, args)
		case "mv":
			err = a.Mv(ctx, args)
		case "rename":
			err = a.Rename(ctx, args)
		case "get":
			err = a.Get(ctx, args)
		case "zip":
			err = a.Zip(ctx, args)
		case "put", "putdir":
			err = a.Put(ctx, args)
		case "queue", "q":
			err = a.Queue(ctx, args)
		case "pause":
			err = a.Pause(ctx, args)
		case "resume":
			err = a.Resume(ctx, args)
		case "cancel":
			err = a.Cancel(ctx, args)
		case "remove":
			err = a.RemoveTask(ctx, args)
		case "restore":
			err = a.Restore(ctx, args)
		case "exit", "quit":
			printlnFn("Bye!")
			return
		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			printlnFn("Error:", err)
		}
	}
}
