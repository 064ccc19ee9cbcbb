// Package modal draws dialogs and coordinates which one is on screen.
//
// A Modal is built declaratively from sections and measured after every
// render, so mouse hit regions always match what was drawn:
//
//	m := modal.New("Confirm Deletion", modal.WithVariant(modal.VariantDanger)).
//	    AddSection(modal.Text("Are you sure you want to delete this user?")).
//	    AddSection(modal.Spacer()).
//	    AddSection(modal.Buttons(
//	        modal.Btn("Delete User", "delete", modal.BtnDanger()),
//	        modal.Btn("Cancel", "cancel"),
//	    ))
//
//	view := m.Render(screenW, screenH, mouseHandler)
//	action, cmd := m.HandleKey(keyMsg)
//
// A Dispatcher owns the single visible dialog. Callers Show a Request with
// a heading, a Body and a list of Actions; the dispatcher builds the Modal,
// routes keys and clicks to it and closes before running an action handler
// marked CloseOnClick. Showing a new request replaces the current one.
//
// Built-in sections: Text, Spacer, Buttons, List, Custom and When.
package modal
