package prompts

const summarizeSpec = `Respond with the summary text only.

Output constraints:
- Plain text, no markdown fencing, no headings, no preamble such as
  "Here is the summary"
- Three to six sentences for a typical document; a single sentence is
  acceptable for very short documents
- Same language as the source document
- Identifiers, amounts, and dates copied exactly as they appear`

const translateSpec = `Respond with the translated text only.

Output constraints:
- Plain text, no markdown fencing, no preamble, no notes about the
  translation
- Every §§LINK{n}§§ placeholder from the input present in the output
  exactly once, spelled exactly as in the input
- Line breaks of the input preserved where the target language allows`

const answerSpec = `Respond with the answer text only.

Output constraints:
- Plain text, no markdown fencing, no preamble
- Two to five sentences grounded in the provided sections
- When the sections are insufficient, exactly one sentence stating that
  the archive does not contain enough information to answer
- Never reference section numbers in the answer; citations are attached
  by the caller`

var specs = map[Stage]string{
	StageSummarize: summarizeSpec,
	StageTranslate: translateSpec,
	StageAnswer:    answerSpec,
}

// Spec returns the built-in output specification for a pipeline stage.
// Specifications define the expected response shape and behavioral
// constraints, and are not overridable.
// Returns ErrInvalidStage if the stage is not recognized.
func Spec(stage Stage) (string, error) {
	text, ok := specs[stage]
	if !ok {
		return "", ErrInvalidStage
	}
	return text, nil
}
