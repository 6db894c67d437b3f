package normalize

import (
	"fmt"

	"github.com/grust-lang/grustc-core/internal/errors"
	"github.com/grust-lang/grustc-core/internal/ir1"
)

// Verify walks every UnitaryComponent's statements asserting the normal
// form invariant ir1.ComponentApply's doc comment names: no FollowedBy or
// RisingEdge survives, and every ComponentApply is the entire RHS of its
// statement with every argument a bare Ident. A violation here is an
// internal bug in one of the four sub-passes, never a user-facing
// diagnostic, mirroring sunholo-data-ailang/internal/elaborate/verify.go's
// VerifyANF (panic, don't report, on a post-condition failure).
func Verify(file *ir1.File, bag *errors.Bag) {
	for _, comp := range file.Components {
		for _, uc := range comp.Unitary {
			for _, st := range uc.Statements {
				verifyTop(st.Expr)
			}
		}
	}
}

func verifyTop(e ir1.Expr) {
	if ca, ok := e.(*ir1.ComponentApply); ok {
		for _, arg := range ca.Inputs {
			if _, ok := arg.Value.(*ir1.Ident); !ok {
				panic(fmt.Sprintf("internal: normalize post-condition violated: ComponentApply argument is not an Ident (%T)", arg.Value))
			}
		}
		return
	}
	verifyNoStreamForms(e)
}

func verifyNoStreamForms(e ir1.Expr) {
	switch ex := e.(type) {
	case *ir1.FollowedBy:
		panic("internal: normalize post-condition violated: FollowedBy survived memorisation")
	case *ir1.RisingEdge:
		panic("internal: normalize post-condition violated: RisingEdge survived memorisation")
	case *ir1.ComponentApply:
		panic("internal: normalize post-condition violated: nested ComponentApply survived flattening")
	default:
		for _, child := range children(ex) {
			verifyNoStreamForms(child)
		}
	}
}
