package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/riscv32/rv32emu/config"
	"github.com/riscv32/rv32emu/debugger"
	"github.com/riscv32/rv32emu/loader"
	"github.com/riscv32/rv32emu/vm"
)

// Version information - can be overridden at build time with:
// go build -ldflags "-X main.Version=v1.2.3"
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

func main() {
	var (
		showVersion = flag.Bool("version", false, "Show version information")
		showHelp    = flag.Bool("help", false, "Show help information")
		debugMode   = flag.Bool("debug", false, "Start in debugger mode")
		tuiMode     = flag.Bool("tui", false, "Use TUI (Text User Interface) debugger")
		maxCycles   = flag.Uint64("max-cycles", 0, "Maximum CPU cycles before halt (0 uses the config default)")
		memorySize  = flag.Uint("memory-size", 0, "Memory image size in bytes (0 uses the config default)")
		stackSlack  = flag.Uint("stack-slack", 0, "Bytes left unmapped-by-convention above the stack pointer (0 uses the config default)")
		entryPoint  = flag.String("entry", "", "Override entry point address (hex or decimal); default is the ELF header's own entry point")
		verboseMode = flag.Bool("verbose", false, "Verbose output")
		dumpSymbols = flag.Bool("dump-symbols", false, "Dump the ELF symbol table and exit")
		symbolsFile = flag.String("symbols-file", "", "Symbol dump output file (default: stdout)")
	)

	flag.Parse()

	if *showVersion {
		fmt.Printf("rv32run %s\n", Version)
		if Commit != "unknown" {
			fmt.Printf("Commit: %s\n", Commit)
		}
		if Date != "unknown" {
			fmt.Printf("Built: %s\n", Date)
		}
		os.Exit(0)
	}

	if *showHelp || flag.NArg() == 0 {
		printHelp()
		if flag.NArg() == 0 && !*showHelp {
			os.Exit(1)
		}
		os.Exit(0)
	}

	elfFile := flag.Arg(0)
	if _, err := os.Stat(elfFile); os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Error: file not found: %s\n", elfFile)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if *dumpSymbols {
		symbols, err := loader.Symbols(elfFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading symbol table: %v\n", err)
			os.Exit(1)
		}
		if err := dumpSymbolTable(symbols, *symbolsFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error dumping symbols: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	if *verboseMode {
		fmt.Printf("Loading ELF file: %s\n", elfFile)
	}

	prog, err := loader.Load(elfFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ELF file: %v\n", err)
		os.Exit(1)
	}

	if *entryPoint != "" {
		var addr uint32
		if _, err := fmt.Sscanf(*entryPoint, "0x%x", &addr); err != nil {
			if _, err := fmt.Sscanf(*entryPoint, "%d", &addr); err != nil {
				fmt.Fprintf(os.Stderr, "Invalid entry point: %s\n", *entryPoint)
				os.Exit(1)
			}
		}
		prog.EntryPoint = addr
	}

	effectiveMemorySize := cfg.Execution.MemorySize
	if *memorySize != 0 {
		effectiveMemorySize = uint32(*memorySize) // #nosec G115 -- CLI flag, bounded by available memory at allocation time
	}

	effectiveStackSlack := cfg.Execution.StackSize
	if *stackSlack != 0 {
		effectiveStackSlack = uint32(*stackSlack) // #nosec G115 -- CLI flag, validated against memory size below
	}
	if effectiveStackSlack >= effectiveMemorySize {
		fmt.Fprintf(os.Stderr, "Error: stack slack %d must be smaller than memory size %d\n", effectiveStackSlack, effectiveMemorySize)
		os.Exit(1)
	}

	effectiveMaxCycles := cfg.Execution.MaxCycles
	if *maxCycles != 0 {
		effectiveMaxCycles = *maxCycles
	}

	machine := vm.NewVM(effectiveMemorySize)
	machine.MaxCycles = effectiveMaxCycles

	if err := loader.LoadIntoVM(machine, prog, effectiveStackSlack); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading program into memory: %v\n", err)
		os.Exit(1)
	}

	if *verboseMode {
		fmt.Printf("Entry point: 0x%08X\n", machine.EntryPoint)
		fmt.Printf("Stack top:   0x%08X\n", machine.StackTop)
		fmt.Printf("Memory size: %d bytes\n", effectiveMemorySize)
		fmt.Printf("Max cycles:  %d\n", effectiveMaxCycles)
	}

	if *debugMode || *tuiMode {
		runDebugger(machine, elfFile, *tuiMode)
		return
	}

	runDirect(machine, *verboseMode)
}

func runDebugger(machine *vm.VM, elfFile string, tui bool) {
	dbg := debugger.NewDebugger(machine)

	symbols, err := loader.Symbols(elfFile)
	if err == nil {
		dbg.LoadSymbols(symbols)
	}

	if tui {
		if err := debugger.RunTUI(dbg); err != nil {
			fmt.Fprintf(os.Stderr, "TUI error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	fmt.Println("RV32I/M Debugger - Type 'help' for commands")
	fmt.Printf("Program loaded: %s\n", elfFile)
	fmt.Println()

	if err := debugger.RunCLI(dbg); err != nil {
		fmt.Fprintf(os.Stderr, "Debugger error: %v\n", err)
		os.Exit(1)
	}
}

func runDirect(machine *vm.VM, verbose bool) {
	if verbose {
		fmt.Println("Starting execution...")
		fmt.Println("----------------------------------------")
	}

	err := machine.Run()

	if verbose {
		fmt.Println("----------------------------------------")
		fmt.Printf("CPU cycles: %d\n", machine.CPU.Cycles)
	}

	switch {
	case err == nil, errors.Is(err, vm.ErrBreakpoint):
		os.Exit(0)
	case errors.Is(err, vm.ErrIllegalInstruction):
		// A fetched word that doesn't decode (such as zero-filled memory
		// past the end of the loaded code) is reported as a halt, not as a
		// runtime error. A `main` that returns ends Run with a nil error.
		if verbose {
			fmt.Printf("Program halted at PC=0x%08X (ran off the end of code)\n", machine.CPU.PC)
		}
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Runtime error at PC=0x%08X: %v\n", machine.CPU.PC, err)
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Printf(`rv32run %s - RV32IM instruction-set simulator

Usage: rv32run [options] <elf-file>

Options:
  -help              Show this help message
  -version           Show version information
  -debug             Start in debugger mode (CLI)
  -tui               Start in TUI debugger mode
  -max-cycles N      Maximum CPU cycles (0 uses the config default)
  -memory-size N     Memory image size in bytes (0 uses the config default)
  -stack-slack N     Bytes left unmapped above the stack pointer (0 uses the config default)
  -entry ADDR        Override entry point address (hex or decimal)
  -verbose           Enable verbose output
  -dump-symbols      Dump the ELF symbol table and exit
  -symbols-file FILE Symbol dump output file (default: stdout)

Examples:
  # Run a program directly
  rv32run program.elf

  # Run with the CLI debugger
  rv32run -debug program.elf

  # Run with the TUI debugger
  rv32run -tui program.elf

  # Run with custom limits
  rv32run -max-cycles 5000000 -memory-size 33554432 program.elf

  # Dump the symbol table
  rv32run -dump-symbols program.elf

Debugger Commands (when in -debug mode):
  run, r             Start/restart program execution
  continue, c        Continue execution
  step, s            Execute single instruction
  next, n            Step over function calls
  break ADDR         Set breakpoint at address/label
  info registers     Show all registers
  print EXPR         Evaluate and print expression
  help               Show debugger help

Settings are read from the TOML config file returned by config.GetConfigPath().
`, Version)
}

// dumpSymbolTable outputs the ELF symbol table in a readable format, sorted
// by address.
func dumpSymbolTable(symbols map[string]uint32, filename string) error {
	var writer *os.File
	if filename == "" {
		writer = os.Stdout
	} else {
		f, err := os.Create(filename) // #nosec G304 -- user-specified symbol output path
		if err != nil {
			return fmt.Errorf("failed to create symbol file: %w", err)
		}
		defer func() { _ = f.Close() }()
		writer = f
	}

	if len(symbols) == 0 {
		_, _ = fmt.Fprintln(writer, "No symbols defined")
		return nil
	}

	_, _ = fmt.Fprintln(writer, "Symbol Table")
	_, _ = fmt.Fprintln(writer, "============")
	_, _ = fmt.Fprintln(writer)
	_, _ = fmt.Fprintf(writer, "%-30s %s\n", "Name", "Address")
	_, _ = fmt.Fprintln(writer, "--------------------------------------------------")

	names := make([]string, 0, len(symbols))
	for name := range symbols {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return symbols[names[i]] < symbols[names[j]] })

	for _, name := range names {
		_, _ = fmt.Fprintf(writer, "%-30s 0x%08X\n", name, symbols[name])
	}

	_, _ = fmt.Fprintln(writer)
	_, _ = fmt.Fprintf(writer, "Total symbols: %d\n", len(symbols))

	return nil
}
