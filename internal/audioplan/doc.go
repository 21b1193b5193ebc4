// Package audioplan turns a phrase.Document into ordered audio instructions
// and executes them against synthesis and mixing collaborators.
//
// Every phrase yields Speak(learn) followed by a pause. Bilingual phrases
// continue with Speak(native), Speak(learn) again, the end marker clip and a
// longer gap. A section title is spoken as the first phrase of its section.
// Plans are deterministic: the same document and timing always produce the
// same instruction list, and Render executes it strictly in order.
package audioplan
