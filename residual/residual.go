// SPDX-License-Identifier: MIT

package residual

import (
	"fmt"
	"math"

	"github.com/katalvlaran/cavity/staggered"
)

// Float is the element type accepted by Function.
type Float interface {
	~float32 | ~float64
}

// Function evaluates the residual of the cavity equations at X.
//
// X must hold 3·nx·ny values in the interleaved [P, U, V] layout. The
// returned slice is freshly allocated; neither X nor g is modified.
// Arithmetic is carried out in float64 whatever T is, so a float32 caller
// only loses precision on the way in and out.
//
// Errors:
//   - staggered.ErrNilGraph / ErrMeshMismatch / ErrInvalidParams from g.Validate.
//   - ErrLengthMismatch when len(X) != g.Unknowns().
//   - ErrNonFinite when X contains NaN or ±Inf.
func Function[T Float](X []T, g *staggered.Graph) ([]T, error) {
	x := make([]float64, len(X))
	for i, v := range X {
		x[i] = float64(v)
	}
	r := make([]float64, len(X))
	if err := Into(r, x, g); err != nil {
		return nil, err
	}
	out := make([]T, len(r))
	for i, v := range r {
		out[i] = T(v)
	}

	return out, nil
}

// Into writes the residual at X into dst without allocating.
// len(dst) and len(X) must both equal g.Unknowns().
func Into(dst, X []float64, g *staggered.Graph) error {
	if err := g.Validate(); err != nil {
		return fmt.Errorf("residual: %w", err)
	}
	n := g.Unknowns()
	if len(X) != n || len(dst) != n {
		return fmt.Errorf("len(X)=%d len(dst)=%d want %d: %w", len(X), len(dst), n, ErrLengthMismatch)
	}
	for i, v := range X {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("X[%d]=%v: %w", i, v, ErrNonFinite)
		}
	}

	vw := view{x: X, nxU: g.NSX.Nx}
	mass(dst, vw, g)
	momentumX(dst, vw, g)
	momentumY(dst, vw, g)
	dummies(dst, X, g)

	return nil
}

// beta selects the upwind side of a face: +½ when the face velocity points
// in the positive direction, −½ otherwise (zero included).
func beta(f float64) float64 {
	if f > 0.0 {
		return 0.5
	}

	return -0.5
}

// mass fills R[3i] with the net volume flux out of pressure cell i.
func mass(r []float64, vw view, g *staggered.Graph) {
	pm := g.Pressure
	dx, dy := g.Dx, g.Dy
	for i := 0; i < pm.Len(); i++ {
		j := i / pm.Nx

		var uw, ue, vn, vs float64
		if !pm.IsLeft(i) {
			uw = vw.u(i - j - 1)
		}
		if !pm.IsRight(i) {
			ue = vw.u(i - j)
		}
		if !pm.IsTop(i) {
			vn = vw.v(i)
		}
		if !pm.IsBottom(i) {
			vs = vw.v(i - pm.Nx)
		}

		r[3*i] = (ue*dy - uw*dy) + (vn*dx - vs*dx)
	}
}

// momentumX fills the U slots with the x-momentum balance of each NSX face.
func momentumX(r []float64, vw view, g *staggered.Graph) {
	m := g.NSX
	nxV := g.NSY.Nx
	dt, dx, dy := g.Dt, g.Dx, g.Dy
	rho, mi, bc := g.Rho, g.Mi, g.BC
	for i := 0; i < m.Len(); i++ {
		j := i / m.Nx
		left, right := m.IsLeft(i), m.IsRight(i)
		bottom, top := m.IsBottom(i), m.IsTop(i)

		uP := vw.u(i)
		var uW, uE, uS, vNE, vNW, vSE, vSW float64
		uN := bc
		if !left {
			uW = vw.u(i - 1)
		}
		if !right {
			uE = vw.u(i + 1)
		}
		if !top {
			uN = vw.u(i + m.Nx)
		}
		if !bottom {
			uS = vw.u(i - m.Nx)
		}
		iPw := i + i/m.Nx
		pW, pE := vw.p(iPw), vw.p(iPw+1)
		iVNW := i + j
		if !top {
			vNW, vNE = vw.v(iVNW), vw.v(iVNW+1)
		}
		if !bottom {
			vSW, vSE = vw.v(iVNW-nxV), vw.v(iVNW+1-nxV)
		}

		dUe := (uE - uP) / dx
		dUw := (uP - uW) / dx
		dUn := (uN - uP) / dy
		dUs := (uP - uS) / dy
		fe := (uE + uP) / 2.0
		fw := (uP + uW) / 2.0
		fn := (vNE + vNW) / 2.0
		fs := (vSE + vSW) / 2.0
		be, bw, bn, bs := beta(fe), beta(fw), beta(fn), beta(fs)

		transient := (rho*uP - rho*m.PhiOld[i]) * (dx * dy / dt)
		advective := rho*fe*((.5-be)*uE+(.5+be)*uP)*dy -
			rho*fw*((.5-bw)*uP+(.5+bw)*uW)*dy +
			rho*fn*((.5-bn)*uN+(.5+bn)*uP)*dx -
			rho*fs*((.5-bs)*uP+(.5+bs)*uS)*dx
		diffusive := mi*dUe*dy - mi*dUw*dy + mi*dUn*dx - mi*dUs*dx
		source := -(pE - pW) * dy

		r[3*(i+j)+1] = transient + advective - diffusive - source
	}
}

// momentumY fills the V slots with the y-momentum balance of each NSY face.
func momentumY(r []float64, vw view, g *staggered.Graph) {
	m := g.NSY
	nxU := g.NSX.Nx
	dt, dx, dy := g.Dt, g.Dx, g.Dy
	rho, mi, bc := g.Rho, g.Mi, g.BC
	for i := 0; i < m.Len(); i++ {
		j := i / m.Nx
		left, right := m.IsLeft(i), m.IsRight(i)
		bottom, top := m.IsBottom(i), m.IsTop(i)

		vP := vw.v(i)
		var vE, vW, vN, vS, uSE, uSW, uNE, uNW float64
		if !right {
			vE = vw.v(i + 1)
		}
		if !left {
			vW = vw.v(i - 1)
		}
		if !top {
			vN = vw.v(i + m.Nx)
		}
		if !bottom {
			vS = vw.v(i - m.Nx)
		}
		pN, pS := vw.p(i+m.Nx), vw.p(i)
		iUSE := i - j
		iUSW := iUSE - 1
		if !right {
			uSE = vw.u(iUSE)
			if top {
				uNE = bc
			} else {
				uNE = vw.u(iUSE + nxU)
			}
		}
		if !left {
			uSW = vw.u(iUSW)
			if top {
				uNW = bc
			} else {
				uNW = vw.u(iUSW + nxU)
			}
		}

		dVe := (vE - vP) / dx
		dVw := (vP - vW) / dx
		dVn := (vN - vP) / dy
		dVs := (vP - vS) / dy
		fe := (uNE + uSE) / 2.0
		fw := (uNW + uSW) / 2.0
		fn := (vP + vN) / 2.0
		fs := (vS + vP) / 2.0
		be, bw, bn, bs := beta(fe), beta(fw), beta(fn), beta(fs)

		transient := (rho*vP - rho*m.PhiOld[i]) * (dx * dy / dt)
		advective := rho*fe*((.5-be)*vE+(.5+be)*vP)*dy -
			rho*fw*((.5-bw)*vP+(.5+bw)*vW)*dy +
			rho*fn*((.5-bn)*vN+(.5+bn)*vP)*dx -
			rho*fs*((.5-bs)*vP+(.5+bs)*vS)*dx
		diffusive := mi*dVe*dy - mi*dVw*dy + mi*dVn*dx - mi*dVs*dx
		source := -(pN - pS) * dy

		r[3*i+2] = transient + advective - diffusive - source
	}
}

// dummies sets R = X on the slots that carry no equation, which pins the
// dummy unknowns at zero once the residual vanishes.
func dummies(r, X []float64, g *staggered.Graph) {
	pm := g.Pressure
	for j := 0; j < pm.Ny; j++ {
		ii := 3*pm.Index(pm.Nx-1, j) + 1
		r[ii] = X[ii]
	}
	for k := g.NSY.Len(); k < pm.Len(); k++ {
		r[3*k+2] = X[3*k+2]
	}
}
