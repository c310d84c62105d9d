package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
)

// Interactive prompt. Each entered expression runs the full pipeline; when
// the 32-bit toolchain is available the compiled program is executed and
// its printed result shown, otherwise the generated assembly is printed
// instead.

const (
	replHistoryFile = ".fdlc_history"
	replPrompt      = "fdl> "
)

const replHelp = `REPL commands:
  :asm     toggle printing the generated assembly
  :quit    exit
`

func cmdRepl() error {
	fmt.Println(versionString + " REPL. Ctrl+C cancels input, Ctrl+D exits. Type :quit to exit.")

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, replHistoryFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	canRun := toolchainAvailable()
	if !canRun {
		fmt.Println("nasm or a 32-bit C compiler is missing; showing assembly instead of running.")
	}
	showAsm := !canRun

	for {
		line, err := ln.Prompt(replPrompt)
		if errors.Is(err, io.EOF) {
			fmt.Println()
			return nil
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if err != nil {
			return err
		}

		code := strings.TrimSpace(line)
		if code == "" {
			continue
		}
		if strings.HasPrefix(code, ":") {
			switch strings.ToLower(code) {
			case ":quit":
				return nil
			case ":asm":
				showAsm = !showAsm
				fmt.Printf("assembly output %v\n", showAsm)
			case ":help":
				fmt.Print(replHelp)
			default:
				fmt.Println("unknown command. Type :help for help.")
			}
			continue
		}

		ln.AppendHistory(line)

		asm, err := CompileSource(code)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		if showAsm {
			fmt.Print(asm)
		}
		if canRun {
			if err := replRun(code); err != nil {
				fmt.Fprintln(os.Stderr, err)
			}
		}
	}
}

// toolchainAvailable reports whether nasm and a C compiler can be found.
func toolchainAvailable() bool {
	if _, err := exec.LookPath(envNasm()); err != nil {
		return false
	}
	if _, err := exec.LookPath(envCC()); err != nil {
		return false
	}
	return true
}

// replRun writes the expression to a scratch file and builds and runs it.
func replRun(code string) error {
	dir, err := os.MkdirTemp("", "fdlc-repl")
	if err != nil {
		return err
	}
	defer os.RemoveAll(dir)

	srcPath := filepath.Join(dir, "expr.fdl")
	if err := os.WriteFile(srcPath, []byte(code+"\n"), 0o644); err != nil {
		return err
	}
	binPath := filepath.Join(dir, "expr")
	if err := buildExecutable(srcPath, binPath); err != nil {
		return err
	}
	cmd := exec.Command(binPath)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
