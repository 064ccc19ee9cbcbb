package monitor

// formModalDimensions returns the outer width and maximum height for dialogs
// that hold the user form or other long content.
func (m Model) formModalDimensions() (int, int) {
	modalWidth := m.Width * 70 / 100
	if modalWidth > 80 {
		modalWidth = 80
	}
	if modalWidth < 50 {
		modalWidth = 50
	}

	modalHeight := m.Height * 85 / 100
	if modalHeight > 35 {
		modalHeight = 35
	}
	if modalHeight < 16 {
		modalHeight = 16
	}

	return modalWidth, modalHeight
}
