package tidy

// Cleanup strips what the overscope installed: the marker, .top_env
// and .env from the overscope frame, then every binding of every
// frame from bottom up to and including top. It never touches the
// enclosure, and when top is not on bottom's chain only bottom is
// emptied. Frames are emptied, never dropped, so closures that
// escaped still hold a valid, if empty, frame. Calling it again is
// harmless.
func Cleanup(ovs *Overscope) {
	if ovs == nil || ovs.frame == nil || ovs.cleaned {
		return
	}
	ovs.cleaned = true
	ovs.frame.Unbind(symTilde, symTopEnv, symEnv)

	bottom, top := ovs.bottom, ovs.top
	if bottom == nil || bottom == ovs.enclosure {
		return
	}
	if top == nil || !top.IsAncestorOf(bottom) {
		bottom.UnbindAll()
		return
	}
	for cur := bottom; cur != nil && cur != ovs.enclosure; cur = cur.Parent() {
		cur.UnbindAll()
		if cur == top {
			return
		}
	}
}
