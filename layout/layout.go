// Package layout implements BreadLang's two-phase address resolution:
// assigning a start address to every subroutine, then stamping every
// DEF label (in subroutines and in macro expansions) with its resolved
// position, exactly as spec'd — macro expansions depend on their call
// site's position, so labels cannot be assigned in a single top-down
// walk.
package layout

import "github.com/bloofirephoenix/BreadLang/ast"

// Resolve runs both layout phases over prog, mutating
// prog.Placeholders (subroutine starts) and every subroutine's and
// macro expansion's own Placeholders map (local DEF labels).
func Resolve(prog *ast.Program) {
	phaseOneSubroutineStarts(prog)
	phaseTwoLocalLabels(prog)
}

// phaseOneSubroutineStarts walks the subroutine list in emission order,
// recording each one's start address before advancing by its raw size.
func phaseOneSubroutineStarts(prog *ast.Program) {
	position := uint16(0)
	for _, sub := range prog.Subroutines {
		prog.Placeholders[sub.Name] = position
		position += uint16(sub.Size())
	}
}

// phaseTwoLocalLabels resolves DEF labels inside every subroutine and
// propagates the running position into each subroutine's macro
// expansions so that a macro's own DEFs are stamped against their
// eventual emit address.
func phaseTwoLocalLabels(prog *ast.Program) {
	for _, sub := range prog.Subroutines {
		scope := copyScope(prog.Placeholders)
		position := prog.Placeholders[sub.Name]
		startPosition := position

		for _, instr := range sub.Instructions {
			if def, ok := instr.(ast.Def); ok {
				scope[def.Name] = position
			}
			position += uint16(instr.Size())
		}
		sub.Placeholders = scope

		position = startPosition
		for i, instr := range sub.Instructions {
			if exp, ok := instr.(ast.MacroExpansion); ok {
				sub.Instructions[i] = resolveMacroExpansion(exp, scope, position)
			}
			position += uint16(instr.Size())
		}
	}
}

// resolveMacroExpansion stamps the macro expansion's own DEF labels
// against the positions they occupy within the caller, starting from
// the position the macro itself begins at, and returns the updated
// expansion (instruction nodes are interface values, so nested
// expansions must be rebuilt rather than mutated in place).
func resolveMacroExpansion(exp ast.MacroExpansion, outerScope map[string]uint16, start uint16) ast.MacroExpansion {
	scope := copyScope(outerScope)
	position := start
	for _, instr := range exp.Instructions {
		if def, ok := instr.(ast.Def); ok {
			scope[def.Name] = position
		}
		position += uint16(instr.Size())
	}
	exp.Placeholders = scope

	position = start
	for i, instr := range exp.Instructions {
		if nested, ok := instr.(ast.MacroExpansion); ok {
			// Disallowed by the parser (MacroCallsMacro), but resolved
			// defensively in case a future relaxation allows it.
			exp.Instructions[i] = resolveMacroExpansion(nested, scope, position)
		}
		position += uint16(instr.Size())
	}
	return exp
}

func copyScope(src map[string]uint16) map[string]uint16 {
	dst := make(map[string]uint16, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
