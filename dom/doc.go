// Package dom is the platform's document tree.
//
// It wraps golang.org/x/net/html nodes with the small amount of browser
// behaviour the bridge relies on: CSS-style queries (translated to XPath
// and evaluated by htmlquery), element navigation, inline styles, and
// bubbling event listeners.
//
// Bridge metadata is kept out of the markup. Each *html.Node can carry an
// expando record holding, per owning platform, the node handle id and the
// event id stamped by the guest:
//
//	doc.SetNodeID(n, owner, 3)
//	doc.SetEventID(n, owner, 7)
//	id := doc.EventID(target, owner) // 0 when unstamped
package dom
