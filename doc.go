// Package scriptbox provides a small sandboxed scripting language for
// per-entity behavior in an interactive content runtime.
//
// Scripts use a JavaScript-like syntax: let/const/var, functions and
// arrows with default parameters, closures, objects and arrays with
// spread, optional chaining and nullish coalescing. They read and write
// the fields of a bound entity, call a small numeric helper set, and
// cannot reach the host file system, network, process control or
// object-model escape hatches. Every invocation runs under a step budget
// and a wall-clock budget, and nested calls are bounded in depth.
//
// # Quick Start
//
// For simple one-off execution:
//
//	v, err := scriptbox.Run(`hp = clamp(hp - 10, 0, hpMax); hp`, map[string]value.Value{
//	    "self": value.ObjectOf(entity),
//	}, nil)
//
// Names the script does not declare resolve against the facade binding
// ("self" by default), so hp, self.hp and this.hp are the same field.
//
// # Parsed Programs
//
// For repeated execution of the same script:
//
//	prog, err := scriptbox.Parse(src)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for _, e := range entities {
//	    _, err := prog.Run(map[string]value.Value{"self": e}, nil)
//	    // ...
//	}
//
// A [Cache] parses each distinct source once, and [Program.RunBatch]
// runs one program over many entities in parallel.
//
// # Configuration
//
// The [Options] type sets the budgets, the array and string size
// limits, the facade name, the naming [Policy], the helper set and the
// logger. [LoadOptions] reads the same settings from YAML.
//
// # Error Handling
//
// Errors are returned as specific types for detailed handling:
//   - [SyntaxError]: lexical, preflight or grammar errors, before execution
//   - [RuntimeError]: errors during execution; test the cause with
//     errors.Is against [ErrStepBudget], [ErrForbidden] and the other kinds
//
// Facade writes made before a runtime error are not rolled back.
//
// # Thread Safety
//
// Parsed [Program] objects are safe for concurrent use.
// Each call to [Program.Run] creates an independent interpreter state.
// Values are not synchronized: do not share one entity between
// concurrent runs.
package scriptbox
