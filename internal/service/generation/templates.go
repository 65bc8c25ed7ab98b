package generation

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/yourusername/orion-api/internal/domain/entity"
	"github.com/yourusername/orion-api/internal/domain/repository"
)

// TemplateGenerator создает челленджи из встроенной библиотеки шаблонов.
// Используется как fallback, когда внешний генератор недоступен.
type TemplateGenerator struct {
	challengeRepo repository.ChallengeRepository
	randFn        func(n int) int
}

// NewTemplateGenerator создает генератор на шаблонах
func NewTemplateGenerator(challengeRepo repository.ChallengeRepository) *TemplateGenerator {
	return &TemplateGenerator{
		challengeRepo: challengeRepo,
		randFn:        rand.Intn,
	}
}

// Generate подбирает шаблон по языку и типу и сохраняет новый челлендж.
// Если для пары язык/тип шаблонов нет, берется любой тип этого языка.
func (g *TemplateGenerator) Generate(ctx context.Context, language string, difficulty int, challengeType string) (*entity.Challenge, error) {
	if !entity.IsValidLanguage(language) {
		return nil, fmt.Errorf("unsupported language: %s", language)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	byType, ok := templateLibrary[language]
	if !ok || len(byType) == 0 {
		return nil, fmt.Errorf("no templates available for language %s", language)
	}

	candidates := byType[challengeType]
	resolvedType := challengeType
	if len(candidates) == 0 {
		for t, list := range byType {
			if len(list) > 0 {
				candidates = list
				resolvedType = t
				break
			}
		}
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("no templates available for language %s type %s", language, challengeType)
	}

	tpl := candidates[g.randFn(len(candidates))]
	payload := &challengePayload{
		Title:         tpl.Title,
		Prompt:        tpl.Prompt,
		CodeSnippet:   tpl.CodeSnippet,
		CorrectAnswer: tpl.CorrectAnswer,
		Hints:         tpl.Hints,
		Explanation:   tpl.Explanation,
	}

	challenge := buildChallenge(language, difficulty, resolvedType, "template", payload, time.Now())
	if err := g.challengeRepo.Create(challenge); err != nil {
		return nil, fmt.Errorf("failed to store template challenge: %w", err)
	}

	log.Printf("[TemplateGenerator] Создан челлендж ID=%d из шаблона (%s, тип %s)",
		challenge.ID, language, resolvedType)
	return challenge, nil
}

type challengeTemplate struct {
	Title         string
	Prompt        string
	CodeSnippet   string
	CorrectAnswer string
	Hints         []string
	Explanation   string
}

// templateLibrary — встроенные шаблоны по языку и типу
var templateLibrary = map[string]map[string][]challengeTemplate{
	"javascript": {
		"fix_bug": {
			{
				Title:  "Array Sum Gone Wrong",
				Prompt: "Fix the bug in this function that should calculate the sum of all numbers in an array.",
				CodeSnippet: `function sumArray(arr) {
  let sum = 0;
  for (let i = 1; i < arr.length; i++) {
    sum += arr[i];
  }
  return sum;
}`,
				CorrectAnswer: `function sumArray(arr) {
  let sum = 0;
  for (let i = 0; i < arr.length; i++) {
    sum += arr[i];
  }
  return sum;
}`,
				Hints: []string{
					"Check the loop initialization carefully.",
					"Make sure the loop processes all elements in the array.",
					"The loop should start from the first element (index 0).",
				},
				Explanation: "The bug was in the for loop initialization. It started from i = 1 instead of i = 0, which meant the first element of the array was being skipped. In JavaScript, array indices start at 0, so to process all elements, the loop should start from index 0.",
			},
			{
				Title:  "Is It Really Broken?",
				Prompt: "Fix the bug in this function that should return whether a number is prime.",
				CodeSnippet: `function isPrime(num) {
  if (num <= 1) return false;
  if (num <= 3) return true;

  if (num % 2 === 0 || num % 3 === 0) return false;

  for (let i = 5; i * i <= num; i += 2) {
    if (num % i === 0) return false;
  }

  return true;
}`,
				CorrectAnswer: `function isPrime(num) {
  if (num <= 1) return false;
  if (num <= 3) return true;

  if (num % 2 === 0 || num % 3 === 0) return false;

  for (let i = 5; i * i <= num; i += 2) {
    if (num % i === 0) return false;
  }

  return true;
}`,
				Hints: []string{
					"The function seems to be working correctly for most cases.",
					"Test the function with different inputs to find edge cases.",
					"Check if there are any logical errors in the prime number algorithm.",
				},
				Explanation: "This is a trick question! The function is actually correct. It efficiently checks if a number is prime by handling base cases, quickly eliminating even numbers and multiples of 3, and only checking odd divisors up to the square root of the number.",
			},
		},
		"complete_code": {
			{
				Title:  "Find the Maximum",
				Prompt: "Complete the function to find the maximum value in an array of numbers.",
				CodeSnippet: `function findMax(arr) {
  // Your code here
}`,
				CorrectAnswer: `function findMax(arr) {
  if (arr.length === 0) return null;

  let max = arr[0];
  for (let i = 1; i < arr.length; i++) {
    if (arr[i] > max) {
      max = arr[i];
    }
  }
  return max;
}`,
				Hints: []string{
					"Initialize a variable to track the maximum value.",
					"Loop through the array and compare each element with the current maximum.",
					"Don't forget to handle the case of an empty array.",
				},
				Explanation: "This solution finds the maximum value by initializing a 'max' variable with the first element, then iterating through the rest of the array. For each element, if it's greater than the current max, we update max. We also handle the edge case of an empty array by returning null.",
			},
		},
		"explain_output": {
			{
				Title:  "Temporal Dead Zone",
				Prompt: "What will be the output of the following code? Explain why.",
				CodeSnippet: `let x = 10;
function foo() {
  console.log(x);
  let x = 20;
}
foo();`,
				CorrectAnswer: "ReferenceError: Cannot access 'x' before initialization",
				Hints: []string{
					"Think about variable hoisting in JavaScript.",
					"Consider the scope of the variable x inside the function.",
					"What happens when you try to access a variable before it's declared with let?",
				},
				Explanation: "This code will throw a ReferenceError. Even though there's a global variable x = 10, inside the function foo() there's another variable x declared with let. Variables declared with let are hoisted but not initialized, creating a 'temporal dead zone' where accessing them before declaration results in a ReferenceError.",
			},
		},
	},
	"python": {
		"fix_bug": {
			{
				Title:  "Runaway Recursion",
				Prompt: "Fix the bug in this function that should return the factorial of a number.",
				CodeSnippet: `def factorial(n):
    if n == 0:
        return 1
    return n * factorial(n)`,
				CorrectAnswer: `def factorial(n):
    if n == 0:
        return 1
    return n * factorial(n - 1)`,
				Hints: []string{
					"Look at the recursive call carefully.",
					"What should change in each recursive call to reach the base case?",
					"The function needs to eventually reach n = 0.",
				},
				Explanation: "The bug was in the recursive call. It was calling factorial(n) instead of factorial(n - 1), which would cause an infinite recursion. In a recursive factorial function, each call should reduce n by 1 until it reaches the base case (n = 0).",
			},
		},
		"complete_code": {
			{
				Title:  "Palindrome Check",
				Prompt: "Complete the function to check if a string is a palindrome (reads the same forwards and backwards).",
				CodeSnippet: `def is_palindrome(s):
    # Your code here`,
				CorrectAnswer: `def is_palindrome(s):
    s = s.lower().replace(" ", "")
    return s == s[::-1]`,
				Hints: []string{
					"You might want to normalize the string (remove spaces, convert to lowercase).",
					"Think about how to check if a string reads the same forwards and backwards.",
					"Python has a concise way to reverse strings using slicing.",
				},
				Explanation: "This solution first normalizes the string by converting it to lowercase and removing spaces. Then it checks if the string equals its reverse (s[::-1] is a Python slicing trick to reverse a string). If they're equal, the string is a palindrome.",
			},
		},
	},
}
