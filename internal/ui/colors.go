package ui

// Color accessors return the escape code for the active theme. They are
// evaluated at call time so InitTheme takes effect everywhere.

func ColorReset() string     { return GetCurrentTheme().Reset }
func ColorBold() string      { return GetCurrentTheme().Bold }
func ColorUnderline() string { return GetCurrentTheme().Underline }
func ColorGreen() string     { return GetCurrentTheme().Success }
func ColorRed() string       { return GetCurrentTheme().Error }
func ColorYellow() string    { return GetCurrentTheme().Warning }
func ColorCyan() string      { return GetCurrentTheme().Primary }
func ColorBlue() string      { return GetCurrentTheme().Info }
func ColorMagenta() string   { return GetCurrentTheme().Secondary }
