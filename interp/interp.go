// Package interp is BreadLang's reference-oracle interpreter: a
// straightforward decode/dispatch loop over an emitted image, used to
// cross-check the compiler's output and to back `bread run`.
// It is not part of the hardware the microcode package describes; it
// exists purely as a software model of the same ISA.
//
// The shape — a State struct, PC/SP as plain ints, a big opcode switch,
// panics converted to errors at the loop boundary — follows
// db47h-ngaro's vm/vm.go + vm/run.go (Instance/Run), generalized from
// ngaro's stack machine to the bread computer's register machine, with
// the functional-options constructor kept verbatim in spirit.
package interp

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/bloofirephoenix/BreadLang/isa"
)

const memorySize = 1 << 16

// Option configures a new State.
type Option func(*State)

// WithDebug enables per-instruction tracing via the trace callback.
func WithDebug(trace func(line string)) Option {
	return func(s *State) { s.trace = trace }
}

// WithMaxSteps bounds the number of instructions Run will execute
// before giving up, guarding test and CLI callers against a runaway
// program that never reaches HLT.
func WithMaxSteps(max int64) Option {
	return func(s *State) { s.maxSteps = max }
}

// WithOutput installs a callback invoked once per OUT instruction with
// the byte written to the display port.
func WithOutput(out func(byte)) Option {
	return func(s *State) { s.output = out }
}

// State is one bread computer instance: its four registers, program
// counter, stack pointer, addressable memory and overflow flag.
type State struct {
	registers [4]uint8
	pc        uint16
	sp        uint8
	memory    [memorySize]uint8
	rom       []byte
	overflow  bool
	halted    bool

	trace    func(string)
	output   func(byte)
	maxSteps int64
	steps    int64
}

// New creates a State that will execute rom starting at address 0.
func New(rom []byte, opts ...Option) *State {
	s := &State{rom: rom, maxSteps: -1}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register returns the current value of r.
func (s *State) Register(r isa.Register) uint8 { return s.registers[r] }

// PC returns the current program counter.
func (s *State) PC() uint16 { return s.pc }

// SP returns the current stack pointer.
func (s *State) SP() uint8 { return s.sp }

// Overflow reports the state of the overflow flag.
func (s *State) Overflow() bool { return s.overflow }

// Memory reads one byte of addressable RAM.
func (s *State) Memory(addr uint16) uint8 { return s.memory[addr] }

func (s *State) fetch() byte {
	if int(s.pc) < len(s.rom) {
		return s.rom[s.pc]
	}
	return 0b11111111 // NOP's opcode in the high bits, past end of ROM
}

func (s *State) advance() {
	s.pc++
}

// Run executes instructions until HLT, a maxSteps budget is exhausted,
// or a decode error occurs.
func (s *State) Run() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("interp: %v", r)
		}
	}()
	for !s.halted {
		if s.maxSteps >= 0 && s.steps >= s.maxSteps {
			return errors.Errorf("interp: exceeded %d instructions without HLT", s.maxSteps)
		}
		s.step()
		s.steps++
	}
	return nil
}

func (s *State) step() {
	b := s.fetch()
	s.advance()

	op, immediate, regA := isa.DecodeFirstByte(b)

	switch op {
	case isa.LW:
		addr := s.word16(immediate)
		s.registers[regA] = s.memory[addr]
		s.tracef("%s = MEM(%d)", regA, addr)
	case isa.SW:
		addr := s.word16(immediate)
		s.memory[addr] = s.registers[regA]
		s.tracef("MEM(%d) = %s", addr, regA)
	case isa.MW:
		s.registers[regA] = s.readRegOrImm(immediate)
		s.tracef("%s = %d", regA, s.registers[regA])
	case isa.PUSH:
		v := s.readRegOrImmFromFirst(immediate, regA)
		s.memory[uint16(s.sp)] = v
		s.sp++
		s.tracef("PUSH(%d)", v)
	case isa.POP:
		s.sp--
		s.registers[regA] = s.memory[uint16(s.sp)]
		s.tracef("%s = POP(%d)", regA, s.registers[regA])
	case isa.LDA:
		s.registers[isa.H] = s.fetch()
		s.advance()
		s.registers[isa.L] = s.fetch()
		s.advance()
		s.tracef("LDA(%d, %d)", s.registers[isa.H], s.registers[isa.L])
	case isa.JMP:
		addr := s.word16(immediate)
		s.pc = addr
		s.tracef("JMP(%d)", addr)
	case isa.JZ:
		addr := s.word16(immediate)
		if s.registers[regA] == 0 {
			s.pc = addr
		}
		s.tracef("JZ(%s, %d)", regA, addr)
	case isa.JC:
		addr := s.word16(immediate)
		if s.overflow {
			s.pc = addr
		}
		s.tracef("JC(%d)", addr)
	case isa.ADD:
		left := s.registers[regA]
		right := s.readRegOrImm(immediate)
		s.registers[regA] = s.addWithCarry(left, right, 0)
		s.tracef("%s = %d + %d", regA, left, right)
	case isa.SUB:
		left := s.registers[regA]
		right := s.readRegOrImm(immediate)
		s.registers[regA] = s.addWithCarry(left, ^right, 1)
		s.tracef("%s = %d - %d", regA, left, right)
	case isa.OUT:
		v := s.readRegOrImmFromFirst(immediate, regA)
		if s.output != nil {
			s.output(v)
		}
		s.tracef("OUT %d", v)
	case isa.HLT:
		s.halted = true
		s.tracef("HLT")
	case isa.NOP:
		s.tracef("NOP")
	default:
		panic("unassigned opcode " + op.String())
	}
}

// word16 reads a 16-bit address operand: two immediate ROM bytes in
// big-endian order, or the H:L register pair.
func (s *State) word16(immediate bool) uint16 {
	if immediate {
		hi := uint16(s.fetch())
		s.advance()
		lo := uint16(s.fetch())
		s.advance()
		return hi<<8 | lo
	}
	return uint16(s.registers[isa.H])<<8 | uint16(s.registers[isa.L])
}

// readRegOrImm reads the second operand of MW/ADD/SUB: either another
// register (named by the top 2 bits of the following ROM byte) or an
// immediate byte.
func (s *State) readRegOrImm(immediate bool) uint8 {
	if immediate {
		v := s.fetch()
		s.advance()
		return v
	}
	regB := isa.DecodeSecondByte(s.fetch())
	s.advance()
	return s.registers[regB]
}

// readRegOrImmFromFirst reads PUSH/OUT's single operand: regA itself if
// not immediate, else an immediate byte.
func (s *State) readRegOrImmFromFirst(immediate bool, regA isa.Register) uint8 {
	if immediate {
		v := s.fetch()
		s.advance()
		return v
	}
	return s.registers[regA]
}

// addWithCarry adds right+carry to left, wrapping on overflow and
// setting the overflow flag the way the original's 2's-complement
// subtraction trick expects: SUB calls this with right inverted and
// carry=1.
func (s *State) addWithCarry(left, right, carry uint8) uint8 {
	withCarry := right + carry
	s.overflow = overflows(left, right, carry) || carryOverflows(right, carry)
	return left + withCarry
}

func overflows(left, right, carry uint8) bool {
	sum := uint16(left) + uint16(right) + uint16(carry)
	return sum > 0xFF
}

func carryOverflows(right, carry uint8) bool {
	return uint16(right)+uint16(carry) > 0xFF
}

func (s *State) tracef(format string, args ...interface{}) {
	if s.trace == nil {
		return
	}
	s.trace(fmt.Sprintf(format, args...))
}
