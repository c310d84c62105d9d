package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/xyproto/env/v2"
)

// cli.go - command-line interface for fdlc
//
// Subcommands:
// - fdlc emit <file.fdl>           (print generated assembly)
// - fdlc build <file.fdl> [-o out] (assemble and link an executable)
// - fdlc run <file.fdl>            (build to a temp dir and execute)
// - fdlc watch <file.fdl>          (rebuild whenever the file changes)
// - fdlc repl                      (interactive prompt)
//
// The assembler and C compiler default to nasm and cc and can be overridden
// through FDLC_NASM and FDLC_CC.

// envNasm and envCC resolve the external tools, honoring overrides.
func envNasm() string { return env.Str("FDLC_NASM", "nasm") }
func envCC() string   { return env.Str("FDLC_CC", "cc") }

// RunCLI dispatches on the first argument.
func RunCLI(args []string) error {
	if len(args) == 0 {
		return cmdHelp()
	}
	switch args[0] {
	case "emit":
		if len(args) < 2 {
			return fmt.Errorf("usage: fdlc emit <file.fdl>")
		}
		return cmdEmit(args[1])
	case "build":
		if len(args) < 2 {
			return fmt.Errorf("usage: fdlc build <file.fdl> [-o output]")
		}
		return cmdBuild(args[1:])
	case "run":
		if len(args) < 2 {
			return fmt.Errorf("usage: fdlc run <file.fdl> [args...]")
		}
		return cmdRun(args[1], args[2:])
	case "watch":
		if len(args) < 2 {
			return fmt.Errorf("usage: fdlc watch <file.fdl>")
		}
		return cmdWatch(args[1])
	case "repl":
		return cmdRepl()
	case "help", "--help", "-h":
		return cmdHelp()
	case "version", "--version", "-V":
		fmt.Println(versionString)
		return nil
	default:
		// Shorthand: fdlc prog.fdl builds the file.
		if strings.HasSuffix(args[0], ".fdl") {
			return cmdBuild(args)
		}
		return fmt.Errorf("unknown command: %s\n\nRun 'fdlc help' for usage information", args[0])
	}
}

func cmdHelp() error {
	fmt.Print(`fdlc - FDL compiler for 32-bit x86

Usage:

  fdlc emit <file.fdl>             print generated assembly
  fdlc build <file.fdl> [-o out]   compile to an executable
  fdlc run <file.fdl>              compile and run immediately
  fdlc watch <file.fdl>            rebuild on every change
  fdlc repl                        interactive prompt
  fdlc version                     print version

Environment:

  FDLC_VERBOSE   enable verbose output
  FDLC_NASM      assembler to use (default: nasm)
  FDLC_CC        C compiler to use (default: cc)
`)
	return nil
}

// CompileSource takes FDL source text through the whole front half of the
// pipeline and returns the finished assembly module.
func CompileSource(src string) (string, error) {
	surface, err := ParseSource(src)
	if err != nil {
		return "", err
	}
	if err := Check(surface); err != nil {
		return "", err
	}
	anf := Normalize(surface)
	if VerboseMode {
		fmt.Fprintf(os.Stderr, "anf: %s\n", anf)
	}
	body, err := Compile(anf)
	if err != nil {
		return "", err
	}
	return ProgramText(body), nil
}

func compileFile(path string) (string, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	asm, err := CompileSource(string(src))
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	return asm, nil
}

func cmdEmit(path string) error {
	asm, err := compileFile(path)
	if err != nil {
		return err
	}
	fmt.Print(asm)
	return nil
}

func cmdBuild(args []string) error {
	inputFile := args[0]
	outputPath := strings.TrimSuffix(filepath.Base(inputFile), ".fdl")
	for i := 1; i < len(args); i++ {
		if args[i] == "-o" && i+1 < len(args) {
			outputPath = args[i+1]
			i++
		}
	}
	return buildExecutable(inputFile, outputPath)
}

// buildExecutable writes the generated assembly and the runtime source next
// to a work directory, assembles with nasm and links with a 32-bit C
// compiler.
func buildExecutable(inputFile, outputPath string) error {
	asm, err := compileFile(inputFile)
	if err != nil {
		return err
	}

	workDir, err := os.MkdirTemp("", "fdlc")
	if err != nil {
		return err
	}
	defer os.RemoveAll(workDir)

	base := strings.TrimSuffix(filepath.Base(inputFile), ".fdl")
	asmFile := filepath.Join(workDir, base+".s")
	objFile := filepath.Join(workDir, base+".o")
	runtimeFile := filepath.Join(workDir, base+"_runtime.c")

	if err := os.WriteFile(asmFile, []byte(asm), 0o644); err != nil {
		return err
	}
	if err := os.WriteFile(runtimeFile, []byte(runtimeSource), 0o644); err != nil {
		return err
	}

	if err := runTool(envNasm(), "-f", "elf32", "-o", objFile, asmFile); err != nil {
		return fmt.Errorf("assembling %s: %w", asmFile, err)
	}
	if err := runTool(envCC(), "-m32", "-o", outputPath, runtimeFile, objFile); err != nil {
		return fmt.Errorf("linking %s: %w", outputPath, err)
	}
	if VerboseMode {
		fmt.Fprintf(os.Stderr, "built %s\n", outputPath)
	}
	return nil
}

func runTool(name string, args ...string) error {
	if VerboseMode {
		fmt.Fprintf(os.Stderr, "running: %s %s\n", name, strings.Join(args, " "))
	}
	cmd := exec.Command(name, args...)
	cmd.Stdout = os.Stderr
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func cmdRun(inputFile string, progArgs []string) error {
	binDir, err := os.MkdirTemp("", "fdlc-run")
	if err != nil {
		return err
	}
	defer os.RemoveAll(binDir)

	binPath := filepath.Join(binDir, strings.TrimSuffix(filepath.Base(inputFile), ".fdl"))
	if err := buildExecutable(inputFile, binPath); err != nil {
		return err
	}

	cmd := exec.Command(binPath, progArgs...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func cmdWatch(inputFile string) error {
	if _, err := os.Stat(inputFile); err != nil {
		return err
	}
	output := strings.TrimSuffix(filepath.Base(inputFile), ".fdl")
	fmt.Fprintln(os.Stderr, "watching", inputFile)
	return newRebuildWatcher(inputFile, output).run()
}
