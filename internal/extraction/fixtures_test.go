package extraction

const readingText = `Read the following passage and mark the letter A, B, C, or D to indicate the correct answer to each of the questions from 5 to 7.
Tom lives in a small village. He goes to school by bike every morning.
Question 5. Where does Tom live?
A) a city B) a village C) a town D) a farm
Question 6. How does Tom go to school?
A) by bus B) by car C) by bike D) on foot
Question 7. When does he go to school?
A) at night B) every morning C) at noon D) never`

const reorderText = `Mark the letter A, B, C, or D to indicate the correct arrangement of the sentences to make a meaningful exchange in each of the following questions from 1 to 2.
Question 1.
a. Hi, how are you?
b. Fine, thanks.
A. a - b
B. b - a
C. a - a
D. b - b
Question 2.
a. Where is the station?
b. It is over there.
c. Thank you so much.
A. a - b - c
B. b - a - c
C. c - a - b
D. a - c - b`

const fillText = `Choose the word that best fits each of the numbered blanks from 1 to 2.
My brother (1) _____ to school every day. He (2) _____ football.
Question 1:
A. go
B. goes
C. going
D. gone
Question 2:
A. plays
B. play
C. playing
D. played`

// dedupText is claimed by both the reading and the fill-shared family.
const dedupText = `Read the following passage. Then answer the questions from 1 to 2.
Mai has a dog called Lucky.
Question 1. What animal does Mai have?
A. a cat
B. a dog
C. a bird
D. a fish
Question 2. What is the name of the dog?
A. Lucky
B. Mai
C. Spot
D. Rex`

const missingOptionsText = `Read the following text and answer the questions from 1 to 3.
Some text here.
Question 1. First?
A. one
B. two
C. three
D. four
Question 2. Second?
A. five
B. six
Question 3. Third?
A. seven
B. eight
C. nine
D. ten`

// examPages is a three page exam with a repeated header, a reading group
// split across pages, a reorder section and an answer key page.
var examPages = []string{
	`EXAM CODE 123
Read the following passage and mark the letter A, B, C, or D to indicate the correct answer to each of the questions from 5 to 7.
Tom lives in a small village. He goes to school by bike every morning.
Question 5. Where does Tom live?
A) a city B) a village C) a town D) a farm
Question 6. How does Tom go to school?
A) by bus B) by car C) by bike D) on foot
`,
	`Exam Code 123
Question 7. When does he go to school?
A) at night B) every morning C) at noon D) never

Mark the letter A, B, C, or D to indicate the correct arrangement of the sentences to make a meaningful exchange in each of the following questions from 1 to 2.
Question 1.
a. Hi, how are you?
b. Fine, thanks.
A. a - b
B. b - a
C. a - a
D. b - b
Question 2.
a. Where is the station?
b. It is over there.
c. Thank you so much.
A. a - b - c
B. b - a - c
C. c - a - b
D. a - c - b
`,
	`exam code 123
ANSWER KEY
1. A  2 - B  3: C
5. B 6. C 7. A`,
}
