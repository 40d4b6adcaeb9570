// Package modulate turns audio spectra, amplitude series and note events
// into per-frame scalars that drive fractal parameters.
//
// Modulators are oblivious to the renderer: they emit plain float64 values
// which the caller feeds to fractal.Renderer.Perturb, SetSeed or SetView.
//
//	band := modulate.NewBand(20, 120, modulate.BandHigh)
//	for frame := range frames {
//	    freq, _ := sg.Transform(audio[frame])
//	    v := band.Update(freq)
//	    r.Perturb(complex(0, -1.4e-5*v), 1)
//	}
package modulate
