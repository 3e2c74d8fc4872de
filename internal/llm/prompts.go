package llm

import "fmt"

// analysisSystemPrompt primes the model for the structural analysis call
const analysisSystemPrompt = `You are a helpful coding assistant that analyzes algorithms.
You answer in the exact line format requested, with no extra commentary.`

// walkthroughSystemPrompt primes the model for the narration script call
const walkthroughSystemPrompt = `You are a patient and thorough coding tutor who explains algorithms through visual steps.
Create a step-by-step walkthrough that shows exactly how the algorithm works with a specific example, similar to watching an animation.
Focus on showing the state of the data structure at each step and explaining what's happening, not on explaining the code itself.`

// framesSystemPrompt primes the model for the frame generation call
const framesSystemPrompt = `You are a helpful coding assistant that converts walkthrough scripts into precise visualization frames.
For merge sort specifically, use multiple arrays to show the division and merging process clearly.
When using variables:
1. Only track variables that are essential to understanding the algorithm (e.g., result arrays, queue in BFS, pointers in two-pointer)
2. Don't track variables that are obvious from the visualization (e.g., if a pointer is shown with an arrow, don't duplicate it as a variable)
3. Prefer using visual elements (arrows, highlights, labels) over variables when possible
4. Use variables for:
   - Collecting results (e.g., "res": [])
   - Data structures needed by the algorithm (e.g., "queue": [] in BFS)
   - Important counters or values not easily shown in the visualization
5. Don't track temporary loop variables or indices that aren't crucial to understanding`

// frameSchema documents the JSON contract the renderer consumes
const frameSchema = `{
  "structures": {
    "main": {
      "type": "array",
      "elements": [1, 2, 3],
      "highlighted": [0, 1],
      "arrows": [[0, 2]],
      "self_arrows": [1],
      "labels": {"0": ["i"]},
      "pointers": {"1": ["L"]}
    }
  },
  "variables": {"res": [], "left": 0, "right": 2},
  "duration": "3s",
  "line": 5,
  "text": "Description of this step"
}`

func analysisPrompt(solutionCode string) string {
	return fmt.Sprintf(`Analyze this LeetCode solution and determine:
1. What data structure it primarily operates on (array or linked list)?
2. What would be a good example input to demonstrate this algorithm? For arrays, provide just the numbers in brackets. For linked lists, use the Node(value)->Node(value) format.
3. A brief description of what the solution does.

Format your response exactly like this:
DATA_STRUCTURE: array or linked_list
INITIAL_DATA: [1, 2, 3, 4] or Node(1)->Node(2)->Node(3)
DESCRIPTION: Brief description

Here's the solution:

%s`, solutionCode)
}

func walkthroughPrompt(description, solutionCode string) string {
	return fmt.Sprintf(`Create a step-by-step visual walkthrough of this algorithm:

Description: %s
Code:
%s

Your walkthrough should:
1. Use a specific, simple example that clearly demonstrates the algorithm
2. Show the exact state of the data structure at each step
3. Use visual markers like underlines (_) for anchors and arrows for pointers
4. Explain what's happening in plain English at each step
5. Focus on the algorithm's behavior, not the code implementation

Format your response like this example:

Let me show you how we solve the threeSum problem using the array [-4, -1, -1, 0, 1, 2].

STEP 0 - THE SETUP
First, think of this like a game where you're trying to balance a scale to zero. We'll pick one number as our anchor, then try to find two other numbers that balance it out.

We sort our numbers first: [-4, -1, -1, 0, 1, 2]

STEP 1 - FIRST ANCHOR (-4)
Let's pick -4 as our anchor. We'll underline it and use two pointers (L and R) to find numbers that sum with it to zero.

Think: "We need two numbers that add up to +4 to balance out our -4"

[Continue with similar detailed visual steps...]

Remember to:
1. Show the exact state of the data structure at each step
2. Use visual markers consistently
3. Explain the reasoning behind each move
4. Keep the focus on what's happening visually`, description, solutionCode)
}

func framesPrompt(walkthrough, dataStructureType, solutionCode string) string {
	return fmt.Sprintf(`Here's a walkthrough script explaining an algorithm:

%s

The solution code, for line number references:

%s

Convert this script into visualization frames that show each step.
For example, with merge sort, you should:
1. Show the division process by creating separate arrays for each subarray
2. Name the arrays meaningfully (e.g., "left", "right", "left1", "left2", etc.)
3. Show the merging process by displaying both input arrays and the merged result

Each frame is a JSON object of this shape (primary structure type here: %q):

%s

Visual element semantics:
- "arrows": [[i, j]] draws curved arrows between different elements
- "self_arrows": [i] draws straight vertical arrows pointing at one element
- "labels": {"i": ["label"]} draws labels below cells
- "pointers": {"i": ["ptr"]} draws pointers above cells with vertical arrows
- "tree" structures list elements in level order with null for missing children
- "dict" structures list elements as [key, value] pairs

Requirements:
1. Show the COMPLETE process of the algorithm using multiple data structures if needed
2. Keep data structure state consistent between frames
3. Explanations should be simple and easy to understand, good enough for a beginner who barely understands data structures, and faithful to the script
4. Set durations long enough for the viewer to read and understand the text
5. Be faithful to the script: use the same example, same dialogue and steps, same highlights and arrows if available
6. Use line numbers from the solution code when relevant
7. Only use variables when they add value to understanding

Return ONLY the JSON array of frame objects, nothing else.`,
		walkthrough, solutionCode, dataStructureType, frameSchema)
}
