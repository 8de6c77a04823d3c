package compiler

// SRE entry points. Every call site routes through callSRE so the
// macro-substitution syntax (`%[NAME]`, used for main's public entry
// point %[SIN_MAIN]) and the extern bookkeeping stay in one place.
const (
	sreInit            = "SRE_INIT"
	sreClean           = "SRE_CLEAN"
	sreRequestResource = "SRE_REQUEST_RESOURCE"
	sreReallocate      = "SRE_REALLOCATE"
	sreAddRef          = "SRE_ADD_REF"
	sreFree            = "SRE_FREE"
	sreOutOfBounds     = "SINL_RTE_OUT_OF_BOUNDS"
	sreStringConcat    = "sinl_string_concat"
	sreStringCopy      = "sinl_string_copy"
	sreArrayCopy       = "sinl_array_copy"
	sreDynArrayAlloc   = "sinl_dynamic_array_alloc"
	sreFloatMod        = "sinl_float_mod" // TODO: float modulo is not yet implemented by the SRE itself
)

// macro renders name as a macro-substituted reference, `%[NAME]`, and
// records it as an extern the driver must declare.
func (c *Compiler) macro(name string) string {
	c.sections.RequireExtern(name)
	return "%[" + name + "]"
}

// callSRE emits a call to an SRE entry point.
func (c *Compiler) callSRE(name string) {
	c.emit("call %s", c.macro(name))
}

// callSREPreserving brackets an SRE call (and the argument-register
// setup it needs, run via setup) with pushUsed/popUsed, so a symbol
// cached in a caller-saved register survives the call. setup runs
// between the push and the call itself, since it's what loads the
// call's own argument registers.
func (c *Compiler) callSREPreserving(name string, setup func()) {
	mark := c.pushUsed(true)
	setup()
	c.callSRE(name)
	c.popUsed(mark)
}
